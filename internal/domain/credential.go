package domain

// CredentialState is the outcome of the API key precondition check.
type CredentialState string

const (
	CredentialReady   CredentialState = "ready"
	CredentialMissing CredentialState = "missing_credential"
)

// CredentialStatus describes where the key came from without exposing it.
type CredentialStatus struct {
	State    CredentialState
	HasEnv   bool
	HasFile  bool
	FilePath string
	Masked   string
}

// Ready reports whether a key is available.
func (s CredentialStatus) Ready() bool {
	return s.State == CredentialReady
}
