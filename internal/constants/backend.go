package constants

import (
	"fmt"
	"time"
)

const (
	JWTHeader        = "Authorization"
	JWTPrefix        = "Bearer "
	JWTClaimUserID   = "userId"
	JWTClaimEmail    = "email"
	JWTClaimUserType = "userType"
	AccessTokenTTL   = 30 * time.Minute
	RefreshTokenTTL  = 7 * 24 * time.Hour
	RequestIDHeader  = "X-Request-ID"
)

// CacheKey is a backend Redis key prefix with its TTL.
type CacheKey struct {
	Prefix string
	TTL    time.Duration
}

func (k CacheKey) Key(id any) string {
	return k.Prefix + fmt.Sprint(id)
}

var (
	CacheUserRecommendations = CacheKey{Prefix: "user:recommendations:", TTL: 24 * time.Hour}
	CacheRouteTags           = CacheKey{Prefix: "route:tags:", TTL: time.Hour}
	CacheUserProfile         = CacheKey{Prefix: "user:profile:", TTL: 30 * time.Minute}
	CacheGymBranches         = CacheKey{Prefix: "gym:branches:", TTL: 6 * time.Hour}
	CacheTagStatistics       = CacheKey{Prefix: "tag:statistics:", TTL: 2 * time.Hour}
)

const (
	RateLimitPerMinute     = 60
	RateLimitPerHour       = 1000
	RateLimitLoginAttempts = 5

	// email verification limits
	RateLimitVerifyPerIPMinute  = 3
	RateLimitVerifyPerEmailHour = 5
	RateLimitVerifyGlobalMinute = 10
	VerifyCodeMaxAttempts       = 5
)

const (
	MessageSuccess        = "요청이 성공적으로 처리되었습니다."
	MessageError          = "요청 처리 중 오류가 발생했습니다."
	MessageValidation     = "입력 데이터 검증에 실패했습니다."
	MessageUnauthorized   = "인증이 필요합니다."
	MessageForbidden      = "접근 권한이 없습니다."
	MessageNotFound       = "요청한 리소스를 찾을 수 없습니다."
	MessageLoginSuccess   = "로그인에 성공했습니다."
	MessageLogoutSuccess  = "로그아웃이 완료되었습니다."
	MessageUserCreated    = "사용자 등록이 완료되었습니다."
	MessageProfileUpdated = "프로필이 업데이트되었습니다."
	MessageRouteCreated   = "루트가 등록되었습니다."
	MessageRouteUpdated   = "루트 정보가 업데이트되었습니다."
	MessageRouteDeleted   = "루트가 삭제되었습니다."
	MessageRateLimited    = "요청이 너무 많습니다. 잠시 후 다시 시도해주세요."
)

// Backend notification categories used by marketing and recommendation pushes.
const (
	NotifyRecommendation = "RECOMMENDATION"
	NotifyNewRoute       = "NEW_ROUTE"
	NotifySocial         = "SOCIAL"
	NotifySystem         = "SYSTEM"
	NotifyMarketing      = "MARKETING"
)
