// pkg/registration/credentials.go
package registration

// Credentials is what the email sign-up steps have collected so far.
// Unset fields are "".
type Credentials struct {
	Email          string `json:"email"`
	ActivationCode string `json:"activationCode"`
	Name           string `json:"name"`
}

// EmailCredentials accumulates Credentials across the registration steps.
// It belongs to one flow; not safe for concurrent use.
type EmailCredentials struct {
	c Credentials
}

func NewEmailCredentials() *EmailCredentials { return &EmailCredentials{} }

func (e *EmailCredentials) SaveEmail(email string)         { e.c.Email = email }
func (e *EmailCredentials) SaveActivationCode(code string) { e.c.ActivationCode = code }
func (e *EmailCredentials) SaveName(name string)           { e.c.Name = name }

func (e *EmailCredentials) Email() string          { return e.c.Email }
func (e *EmailCredentials) ActivationCode() string { return e.c.ActivationCode }
func (e *EmailCredentials) Name() string           { return e.c.Name }

// Credentials returns a copy; later saves don't show through it.
func (e *EmailCredentials) Credentials() Credentials { return e.c }

// Reset drops everything collected, e.g. when the user restarts the flow.
func (e *EmailCredentials) Reset() { e.c = Credentials{} }
