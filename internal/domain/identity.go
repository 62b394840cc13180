package domain

// Identity is the signed-in caller as asserted by the identity provider.
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Image string `json:"image,omitempty"`
}

// DisplayName returns the name, falling back to the email address.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}

// Details returns the user snapshot stored on prompts.
func (i Identity) Details() *UserDetails {
	return &UserDetails{Email: i.Email, Name: i.Name, Image: i.Image}
}
