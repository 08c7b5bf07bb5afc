package contract

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the union of the app and backend login payloads.
type LoginResponse struct {
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
	TokenType    string         `json:"tokenType,omitempty"`
	ExpiresIn    int64          `json:"expiresIn,omitempty"`
	User         *User          `json:"user,omitempty"`
	Profile      *UserProfile   `json:"profile,omitempty"`
	UserInfo     *LoginUserInfo `json:"userInfo,omitempty"`
}

func (r LoginResponse) Tokens() TokenPair {
	return TokenPair{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}

type LoginUserInfo struct {
	UserID          int64  `json:"userId"`
	Email           string `json:"email"`
	UserName        string `json:"userName"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

type SocialLoginRequest struct {
	Provider     SocialProvider `json:"provider" validate:"required,enum"`
	SocialID     string         `json:"socialId" validate:"required"`
	AccessToken  string         `json:"accessToken" validate:"required"`
	Email        string         `json:"email,omitempty" validate:"omitempty,email"`
	Name         string         `json:"name,omitempty"`
	ProfileImage string         `json:"profileImage,omitempty"`
}

type TokenRefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type TokenRefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty"`
}

func (r TokenRefreshResponse) Tokens() TokenPair {
	return TokenPair{AccessToken: r.AccessToken, RefreshToken: r.RefreshToken}
}

// TokenPair is what the session persists between runs.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (p TokenPair) Empty() bool { return p.AccessToken == "" && p.RefreshToken == "" }

// SignupRequest requires an email verified beforehand (RegistrationToken)
// and both mandatory agreements set to true.
type SignupRequest struct {
	Email             string `json:"email" validate:"required,email,max=100"`
	Password          string `json:"password" validate:"required,password"`
	UserName          string `json:"userName" validate:"required,nickname"`
	Phone             string `json:"phone" validate:"required,phone"`
	RegistrationToken string `json:"registrationToken" validate:"required"`
	AgreeTerms        bool   `json:"agreeTerms" validate:"required"`
	AgreePrivacy      bool   `json:"agreePrivacy" validate:"required"`
	AgreeMarketing    *bool  `json:"agreeMarketing,omitempty"`
	AgreeLocation     *bool  `json:"agreeLocation,omitempty"`
}

type EmailCheckResponse struct {
	Available            bool   `json:"available"`
	Message              string `json:"message"`
	VerificationRequired bool   `json:"verificationRequired"`
}

type EmailVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type EmailVerificationResponse struct {
	Message          string     `json:"message"`
	VerificationCode string     `json:"verificationCode,omitempty"`
	ExpiresAt        *Timestamp `json:"expiresAt,omitempty"`
	SessionToken     string     `json:"sessionToken"`
}

type VerifyCodeRequest struct {
	Email            string `json:"email" validate:"required,email"`
	VerificationCode string `json:"verificationCode" validate:"required,len=6"`
	SessionToken     string `json:"sessionToken" validate:"required"`
}

type VerifyCodeResponse struct {
	Message           string     `json:"message"`
	VerifiedEmail     string     `json:"verifiedEmail"`
	RegistrationToken string     `json:"registrationToken"`
	TokenExpiresAt    *Timestamp `json:"tokenExpiresAt,omitempty"`
}
