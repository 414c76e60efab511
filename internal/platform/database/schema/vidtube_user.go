package schema

// UserTable represents the 'vidtube.users' table
type UserTable struct {
	Table        string
	ID           string
	Username     string
	Email        string
	FullName     string
	Avatar       string
	CoverImage   string
	PasswordHash string
	RefreshToken string
	CreatedAt    string
	UpdatedAt    string
}

// User is the schema definition for vidtube.users
var User = UserTable{
	Table:        "vidtube.users",
	ID:           "id",
	Username:     "username",
	Email:        "email",
	FullName:     "fullname",
	Avatar:       "avatar",
	CoverImage:   "coverimage",
	PasswordHash: "passwordhash",
	RefreshToken: "refreshtoken",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t UserTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.FullName, t.Avatar, t.CoverImage,
		t.PasswordHash, t.RefreshToken, t.CreatedAt, t.UpdatedAt,
	}
}
