// internal/pipeline/render/status_test.go
package render

import (
	"fmt"
	"testing"

	"racket-advisor/internal/common/errors"
	"racket-advisor/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Messages(t *testing.T) {
	r := New(Korean)
	tests := []struct {
		name   string
		action Action
		err    error
		want   string
	}{
		{
			name:   "scan http error",
			action: ActionScan,
			err:    errors.NewHTTPError("scan", 500, "server error"),
			want:   "손 분석 요청 실패 (500) : server error",
		},
		{
			name:   "scan network failure",
			action: ActionScan,
			err:    errors.NewNetworkFailureError("scan", fmt.Errorf("connection refused")),
			want:   "손 분석 요청 중 오류가 발생했습니다: connection refused",
		},
		{
			name:   "recommend http error",
			action: ActionRecommend,
			err:    errors.NewHTTPError("recommend", 422, "bad survey"),
			want:   "라켓 추천 요청 실패 (422) : bad survey",
		},
		{
			name:   "recommend decode failure reads like network",
			action: ActionRecommend,
			err:    errors.NewDecodeFailedError("recommend", fmt.Errorf("unexpected end of JSON input")),
			want:   "라켓 추천 요청 중 오류가 발생했습니다: unexpected end of JSON input",
		},
		{
			name:   "empty selection",
			action: ActionScan,
			err:    errors.NewEmptySelectionError(),
			want:   "먼저 이미지를 선택해 주세요.",
		},
		{
			name:   "admin list",
			action: ActionAdminList,
			err:    errors.NewHTTPError("admin", 503, "down"),
			want:   "DB 라켓 조회 실패 (503) : down",
		},
		{
			name:   "admin create validation",
			action: ActionAdminCreate,
			err:    errors.NewInvalidPayloadError("name: required"),
			want:   "라켓 이름과 브랜드는 필수입니다.",
		},
		{
			name:   "plain error",
			action: ActionScan,
			err:    fmt.Errorf("boom"),
			want:   "손 분석 요청 중 오류가 발생했습니다: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Status(tt.action, tt.err))
		})
	}
	assert.Equal(t, "", r.Status(ActionScan, nil))
}

func TestAdminConfirmations(t *testing.T) {
	r := New(Korean)
	assert.Equal(t, "라켓 추가 완료: Pure Aero", r.RacketCreated("Pure Aero"))
	assert.Equal(t, "라켓 추가 완료: 새 라켓", r.RacketCreated(""))
	assert.Equal(t, "라켓 삭제 완료 (ID: 7)", r.RacketDeleted(7))
	assert.Equal(t, "DB가 초기화되었습니다.", r.ResetDone(""))
	assert.Equal(t, "reset ok", r.ResetDone("reset ok"))
}

func TestView_Placeholders(t *testing.T) {
	r := New(Korean)

	idle := r.View(ViewInput{State: models.StateIdle})
	assert.Empty(t, idle.Metrics)
	assert.Empty(t, idle.MetricsPlaceholder)
	assert.Empty(t, idle.String.Main)

	busy := r.View(ViewInput{State: models.StateScanning, Status: models.UIStatus{Busy: true}})
	assert.Equal(t, "스트링 추천을 준비 중입니다…", busy.String.Main)

	emptyScan := r.View(ViewInput{State: models.StateMetricsReady, Metrics: &models.HandMetrics{}})
	assert.Equal(t, "표시할 손 분석 데이터가 없습니다.", emptyScan.MetricsPlaceholder)

	noRackets := r.View(ViewInput{State: models.StateResultsReady, Recommendation: &models.Recommendation{}})
	assert.Equal(t, "라켓 데이터가 없습니다.", noRackets.RacketsPlaceholder)
	assert.Equal(t, "스트링 추천 정보를 받지 못했습니다.", noRackets.String.Main)
}
