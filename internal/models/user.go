package models

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Label is the display name of the role.
func (r Role) Label() string {
	if r == RoleAdmin {
		return "מנהל"
	}
	return "משתמש"
}

type BankAccount struct {
	BankNumber    string `json:"bank_number,omitempty"`
	BranchNumber  string `json:"branch_number,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	AccountOwner  string `json:"account_owner,omitempty"`
}

// User is the current-user record. Phone, IDNum and Secret are sent with
// every remote call, so the record is kept whole in the session store.
type User struct {
	Phone   string       `json:"phone"`
	IDNum   string       `json:"idNum"`
	Secret  string       `json:"secret"`
	Name    string       `json:"name,omitempty"`
	Account *BankAccount `json:"bank_account,omitempty"`
	Balance string       `json:"balance,omitempty"`
	Role    Role         `json:"role,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Profile is the user without its secret code.
type Profile struct {
	Phone     string       `json:"phone"`
	IDNum     string       `json:"id_number"`
	Name      string       `json:"name,omitempty"`
	Account   *BankAccount `json:"bank_account,omitempty"`
	Balance   string       `json:"balance,omitempty"`
	Role      Role         `json:"role"`
	RoleLabel string       `json:"role_label"`
}

func (u *User) Profile() Profile {
	role := u.Role
	if role == "" {
		role = RoleUser
	}
	return Profile{
		Phone:     u.Phone,
		IDNum:     u.IDNum,
		Name:      u.Name,
		Account:   u.Account,
		Balance:   u.Balance,
		Role:      role,
		RoleLabel: role.Label(),
	}
}

// AdminUser is one row of the administrative user listing.
type AdminUser struct {
	Phone     string `json:"phone_number"`
	IDNum     string `json:"id_number"`
	Balance   string `json:"balance"`
	Role      Role   `json:"role"`
	RoleLabel string `json:"role_label"`
	Name      string `json:"name"`
}

// Clone copies u including its bank account.
func (u User) Clone() User {
	if u.Account != nil {
		acc := *u.Account
		u.Account = &acc
	}
	return u
}
