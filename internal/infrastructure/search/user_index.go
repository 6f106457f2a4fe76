package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
)

// NewClient creates an Elasticsearch client with optional basic auth.
func NewClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	})
}

// UserIndex keeps a searchable projection of identities. Password hashes are
// never indexed.
type UserIndex struct {
	es      *elasticsearch.Client
	index   string
	timeout time.Duration
}

func NewUserIndex(es *elasticsearch.Client, index string) *UserIndex {
	return &UserIndex{es: es, index: index, timeout: 3 * time.Second}
}

type userDoc struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toDoc(u *entity.User) userDoc {
	return userDoc{
		ID: u.ID, Name: u.Name, Email: u.Email,
		Role: string(u.Role), Status: string(u.Status),
		CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
	}
}

func (d userDoc) toUser() *entity.User {
	return &entity.User{
		ID: d.ID, Name: d.Name, Email: d.Email,
		Role: entity.Role(d.Role), Status: entity.Status(d.Status),
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

func (x *UserIndex) Index(ctx context.Context, u *entity.User) error {
	b, err := json.Marshal(toDoc(u))
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	req := esapi.IndexRequest{Index: x.index, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, x.es)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s: %s", u.ID, res.Status())
	}
	return nil
}

// Search runs a multi_match over email and name. size is clamped to 1..50.
func (x *UserIndex) Search(ctx context.Context, q string, size int) ([]*entity.User, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	body, err := json.Marshal(map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  strings.TrimSpace(q),
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	})
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()
	res, err := x.es.Search(
		x.es.Search.WithContext(c),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source userDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]*entity.User, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source.toUser())
	}
	return out, nil
}
