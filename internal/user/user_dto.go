package user

type RegisterUserRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8"`
	FullName   string `json:"full_name" binding:"required"`
	Role       string `json:"role" binding:"required,oneof=EMPLOYEE MANAGER COWORKER"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

type UpdateUserRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
}

type UserResponse struct {
	ID          string `json:"id"`
	StaffNumber string `json:"staff_number"`
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	Role        string `json:"role"`
	Department  string `json:"department,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Active      bool   `json:"active"`
	CreatedAt   string `json:"created_at"`
}

// DirectoryEntry is the org-wide listing row. No phone here: the directory is
// visible to every role, decrypted phone numbers are not.
type DirectoryEntry struct {
	ID          string `json:"id"`
	StaffNumber string `json:"staff_number"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Department  string `json:"department,omitempty"`
}
