package contract

type User struct {
	UserID      int64      `json:"userId" validate:"required"`
	Email       string     `json:"email" validate:"required,email,max=100"`
	NickName    string     `json:"nickName" validate:"required"`
	UserType    UserType   `json:"userType" validate:"required,enum"`
	UserStatus  UserStatus `json:"userStatus,omitempty" validate:"omitempty,enum"`
	LastLoginAt *Timestamp `json:"lastLoginAt,omitempty"`
	Audit
}

type UserProfile struct {
	ProfileID       int64    `json:"profileId"`
	UserID          int64    `json:"userId" validate:"required"`
	RealName        string   `json:"realName,omitempty"`
	NickName        string   `json:"nickName" validate:"required"`
	Gender          Gender   `json:"gender,omitempty" validate:"omitempty,enum"`
	Height          *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
	Weight          *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	LevelID         *int64   `json:"levelId,omitempty"`
	BranchID        *int64   `json:"branchId,omitempty"`
	ProfileImageURL string   `json:"profileImageUrl,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	Audit
}
