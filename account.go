package megagen

import "fmt"

// GeneratedAccount holds the credentials of a successfully confirmed account.
// GeneratedAccount is a pure data struct; a value exists only if registration,
// email confirmation and verification all completed.
type GeneratedAccount struct {
	Email    string
	Password string
	Name     string
}

// String renders the credentials as a multi-line block.
func (a *GeneratedAccount) String() string {
	return fmt.Sprintf("Email: %s\nPassword: %s\nName: %s", a.Email, a.Password, a.Name)
}
