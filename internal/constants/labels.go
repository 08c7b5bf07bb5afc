package constants

import "github.com/son-changwook/routepick/internal/contract"

var TagTypeLabels = map[contract.TagType]string{
	contract.TagTypeStyle:      "스타일",
	contract.TagTypeFeature:    "특징",
	contract.TagTypeTechnique:  "테크닉",
	contract.TagTypeDifficulty: "난이도",
	contract.TagTypeMovement:   "무브먼트",
	contract.TagTypeHoldType:   "홀드 타입",
	contract.TagTypeWallAngle:  "벽 각도",
	contract.TagTypeOther:      "기타",
}

var UserTypeLabels = map[contract.UserType]string{
	contract.UserTypeRegular:  "일반 사용자",
	contract.UserTypeGymAdmin: "체육관 관리자",
	contract.UserTypeAdmin:    "시스템 관리자",
}

var RouteStatusLabels = map[contract.RouteStatus]string{
	contract.RouteStatusActive:      "활성",
	contract.RouteStatusRetired:     "폐기",
	contract.RouteStatusMaintenance: "점검중",
}

var PaymentStatusLabels = map[contract.PaymentStatus]string{
	contract.PaymentPending:   "대기중",
	contract.PaymentCompleted: "완료",
	contract.PaymentFailed:    "실패",
	contract.PaymentCancelled: "취소",
	contract.PaymentRefunded:  "환불",
}

var NotificationTypeLabels = map[contract.NotificationType]string{
	contract.NotificationSystem:      "시스템 알림",
	contract.NotificationComment:     "댓글 알림",
	contract.NotificationLike:        "좋아요 알림",
	contract.NotificationFollow:      "팔로우 알림",
	contract.NotificationClimb:       "등반 알림",
	contract.NotificationRouteUpdate: "루트 업데이트",
	contract.NotificationPayment:     "결제 알림",
}

var PreferenceLevelLabels = map[contract.PreferenceLevel]string{
	contract.PreferenceLow:    "낮음",
	contract.PreferenceMedium: "보통",
	contract.PreferenceHigh:   "높음",
}

var SkillLevelLabels = map[contract.SkillLevel]string{
	contract.SkillBeginner:     "초급",
	contract.SkillIntermediate: "중급",
	contract.SkillAdvanced:     "고급",
	contract.SkillExpert:       "전문가",
}

// Label returns the display label of an enumeration value, or the raw value
// when it has none.
func Label[T ~string](labels map[T]string, v T) string {
	if l, ok := labels[v]; ok {
		return l
	}
	return string(v)
}
