package auth

// Claims es la identidad extraída del token del clínico.
type Claims struct {
	UserID string
	Email  string
}
