// internal/pipeline/render/messages.go
package render

import (
	"racket-advisor/internal/models"
)

// Action names a user-triggered operation for status messages.
type Action string

const (
	ActionScan         Action = "scan"
	ActionRecommend    Action = "recommend"
	ActionAdminList    Action = "admin.list"
	ActionAdminGet     Action = "admin.get"
	ActionAdminCreate  Action = "admin.create"
	ActionAdminUpdate  Action = "admin.update"
	ActionAdminDelete  Action = "admin.delete"
	ActionAdminReset   Action = "admin.reset"
	ActionAdminHistory Action = "admin.history"
)

type actionText struct {
	HTTP    string // status, body
	Network string // error text
}

type catalog struct {
	NoName        string
	DefaultReason string
	ScoreFormat   string

	NoMetrics     string
	NoStringInfo  string
	StringPending string
	NoRackets     string

	LengthIndex  string
	WidthIndex   string
	FingerRatios string
	LengthMm     string
	LengthCm     string
	WidthMm      string
	WidthCm      string
	SizeCategory string
	GripSize     string
	HandType     string
	Sizes        map[models.SizeCategory]string

	EmptySelection    string
	InFlight          string
	NameBrandRequired string
	InvalidPayload    string

	AdminListed   string
	RacketCreated string
	NewRacket     string
	RacketUpdated string
	RacketDeleted string
	ResetDone     string

	Actions map[Action]actionText
}

var catalogs = map[Locale]catalog{
	Korean: {
		NoName:        "이름 없음",
		DefaultReason: "손 분석 결과와 설문 응답을 바탕으로 추천된 라켓입니다.",
		ScoreFormat:   "적합도 %s점",

		NoMetrics:     "표시할 손 분석 데이터가 없습니다.",
		NoStringInfo:  "스트링 추천 정보를 받지 못했습니다.",
		StringPending: "스트링 추천을 준비 중입니다…",
		NoRackets:     "라켓 데이터가 없습니다.",

		LengthIndex:  "손 길이 지수",
		WidthIndex:   "손 너비 지수",
		FingerRatios: "손가락 비율 (검지/중지, 약지/중지)",
		LengthMm:     "손 길이 (mm)",
		LengthCm:     "손 길이 (cm)",
		WidthMm:      "손 너비 (mm)",
		WidthCm:      "손 너비 (cm)",
		SizeCategory: "손 크기 분류",
		GripSize:     "추천 그립 사이즈",
		HandType:     "손 유형",
		Sizes: map[models.SizeCategory]string{
			models.SizeSmall:  "작은 손",
			models.SizeMedium: "보통 손",
			models.SizeLarge:  "큰 손",
		},

		EmptySelection:    "먼저 이미지를 선택해 주세요.",
		InFlight:          "이미 요청을 처리하고 있습니다. 잠시만 기다려 주세요.",
		NameBrandRequired: "라켓 이름과 브랜드는 필수입니다.",
		InvalidPayload:    "입력값이 올바르지 않습니다: %s",

		AdminListed:   "DB 라켓 목록 조회 완료.",
		RacketCreated: "라켓 추가 완료: %s",
		NewRacket:     "새 라켓",
		RacketUpdated: "라켓 수정 완료: %s",
		RacketDeleted: "라켓 삭제 완료 (ID: %d)",
		ResetDone:     "DB가 초기화되었습니다.",

		Actions: map[Action]actionText{
			ActionScan:         {HTTP: "손 분석 요청 실패 (%d) : %s", Network: "손 분석 요청 중 오류가 발생했습니다: %s"},
			ActionRecommend:    {HTTP: "라켓 추천 요청 실패 (%d) : %s", Network: "라켓 추천 요청 중 오류가 발생했습니다: %s"},
			ActionAdminList:    {HTTP: "DB 라켓 조회 실패 (%d) : %s", Network: "DB 라켓 조회 에러: %s"},
			ActionAdminGet:     {HTTP: "라켓 조회 실패 (%d) : %s", Network: "라켓 조회 에러: %s"},
			ActionAdminCreate:  {HTTP: "라켓 추가 실패 (%d) : %s", Network: "라켓 추가 에러: %s"},
			ActionAdminUpdate:  {HTTP: "라켓 수정 실패 (%d) : %s", Network: "라켓 수정 에러: %s"},
			ActionAdminDelete:  {HTTP: "라켓 삭제 실패 (%d) : %s", Network: "라켓 삭제 에러: %s"},
			ActionAdminReset:   {HTTP: "DB 초기화 실패 (%d) : %s", Network: "DB 초기화 에러: %s"},
			ActionAdminHistory: {HTTP: "기록 조회 실패 (%d) : %s", Network: "기록 조회 에러: %s"},
		},
	},
	English: {
		NoName:        "no name",
		DefaultReason: "Recommended from your hand scan and survey answers.",
		ScoreFormat:   "Fit %s",

		NoMetrics:     "No hand measurements to show.",
		NoStringInfo:  "No string recommendation was received.",
		StringPending: "Preparing string recommendation…",
		NoRackets:     "No rackets to show.",

		LengthIndex:  "Hand length index",
		WidthIndex:   "Hand width index",
		FingerRatios: "Finger ratios (index/middle, ring/middle)",
		LengthMm:     "Hand length (mm)",
		LengthCm:     "Hand length (cm)",
		WidthMm:      "Hand width (mm)",
		WidthCm:      "Hand width (cm)",
		SizeCategory: "Hand size",
		GripSize:     "Suggested grip size",
		HandType:     "Hand type",
		Sizes: map[models.SizeCategory]string{
			models.SizeSmall:  "small",
			models.SizeMedium: "medium",
			models.SizeLarge:  "large",
		},

		EmptySelection:    "Please choose an image first.",
		InFlight:          "A request is already in progress. Please wait.",
		NameBrandRequired: "Racket name and brand are required.",
		InvalidPayload:    "Invalid input: %s",

		AdminListed:   "Loaded rackets from the database.",
		RacketCreated: "Racket added: %s",
		NewRacket:     "new racket",
		RacketUpdated: "Racket updated: %s",
		RacketDeleted: "Racket deleted (ID: %d)",
		ResetDone:     "The database was reset.",

		Actions: map[Action]actionText{
			ActionScan:         {HTTP: "Hand scan request failed (%d) : %s", Network: "An error occurred during the hand scan request: %s"},
			ActionRecommend:    {HTTP: "Racket recommendation request failed (%d) : %s", Network: "An error occurred during the racket recommendation request: %s"},
			ActionAdminList:    {HTTP: "Loading rackets failed (%d) : %s", Network: "Error while loading rackets: %s"},
			ActionAdminGet:     {HTTP: "Loading racket failed (%d) : %s", Network: "Error while loading racket: %s"},
			ActionAdminCreate:  {HTTP: "Adding racket failed (%d) : %s", Network: "Error while adding racket: %s"},
			ActionAdminUpdate:  {HTTP: "Updating racket failed (%d) : %s", Network: "Error while updating racket: %s"},
			ActionAdminDelete:  {HTTP: "Deleting racket failed (%d) : %s", Network: "Error while deleting racket: %s"},
			ActionAdminReset:   {HTTP: "Database reset failed (%d) : %s", Network: "Error while resetting the database: %s"},
			ActionAdminHistory: {HTTP: "Loading history failed (%d) : %s", Network: "Error while loading history: %s"},
		},
	},
}
