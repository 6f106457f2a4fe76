package entity

// ExternalIdentity is what a federated provider asserts about the caller.
type ExternalIdentity struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}
