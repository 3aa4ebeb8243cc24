package users

// SetRoleRequest HTTP request model
type SetRoleRequest struct {
	Role string `json:"role"` // client, captain, admin
}
