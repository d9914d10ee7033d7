package domain

// SecurityLevel is the role tag stored with every account. Lower is more
// privileged; values outside the known set fall into the auth tier.
type SecurityLevel int32

const (
	LevelAdmin     SecurityLevel = 0
	LevelModerator SecurityLevel = 1
	LevelUser      SecurityLevel = 2
)

// SaltLength is the number of characters in a generated account salt.
const SaltLength = 8

// Account is the stored identity record.
type Account struct {
	ID             int32         `json:"id"`
	Login          string        `json:"login"`
	HashedPassword string        `json:"-"`
	Salt           string        `json:"-"`
	SecurityLvl    SecurityLevel `json:"security_lvl"`
}

// Claims is the identity payload carried inside a session token.
type Claims struct {
	ID          int32         `json:"id"`
	SecurityLvl SecurityLevel `json:"security_lvl"`
}

// IsAdmin reports whether the claims belong to an administrator.
func (c Claims) IsAdmin() bool {
	return c.SecurityLvl == LevelAdmin
}
