package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pratik-mahalle/nutriscan/internal/api/dto"
	"github.com/pratik-mahalle/nutriscan/internal/domain/profile"
	"github.com/pratik-mahalle/nutriscan/internal/domain/quota"
	"github.com/pratik-mahalle/nutriscan/internal/domain/subscription"
	"github.com/pratik-mahalle/nutriscan/internal/testutil"
)

func TestSubscriptionHandler_Upgrade(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name           string
		body           dto.UpgradeRequest
		expectedStatus int
	}{
		{name: "premium monthly", body: dto.UpgradeRequest{Plan: "premium", BillingCycle: "monthly"}, expectedStatus: http.StatusOK},
		{name: "pro yearly", body: dto.UpgradeRequest{Plan: "pro", BillingCycle: "yearly"}, expectedStatus: http.StatusOK},
		{name: "free is not an upgrade", body: dto.UpgradeRequest{Plan: "free", BillingCycle: "monthly"}, expectedStatus: http.StatusBadRequest},
		{name: "unknown cycle", body: dto.UpgradeRequest{Plan: "pro", BillingCycle: "weekly"}, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			api.subscription.Upgrade(rr, newRequest(t, http.MethodPost, "/api/v1/subscription/upgrade", "u1", tt.body))

			if status := rr.Code; status != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", status, tt.expectedStatus)
			}
		})
	}
}

func TestSubscriptionHandler_QuotaFollowsPlan(t *testing.T) {
	api := newTestAPI(t, testutil.SugaryProduct)
	scanAs(t, api, "u1", testutil.SugaryProduct.Barcode, 2)

	getQuota := func() quota.Status {
		t.Helper()
		rr := httptest.NewRecorder()
		api.subscription.Quota(rr, newRequest(t, http.MethodGet, "/api/v1/quota", "u1", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d", rr.Code)
		}
		var s quota.Status
		decodeEnvelope(t, rr, &s)
		return s
	}

	if s := getQuota(); s.Limit != 5 || s.Used != 2 || s.Remaining != 3 {
		t.Errorf("free quota = %+v", s)
	}

	upgrade(t, api, "u1", subscription.PlanPremium)
	if s := getQuota(); s.Limit != 50 || s.Remaining != 48 {
		t.Errorf("premium quota = %+v", s)
	}

	upgrade(t, api, "u1", subscription.PlanPro)
	if s := getQuota(); !s.Unlimited || s.Remaining != -1 {
		t.Errorf("pro quota = %+v", s)
	}

	rr := httptest.NewRecorder()
	api.subscription.Cancel(rr, newRequest(t, http.MethodDelete, "/api/v1/subscription", "u1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("cancel status = %d", rr.Code)
	}
	if s := getQuota(); s.Plan != string(subscription.PlanFree) || s.Limit != 5 {
		t.Errorf("quota after cancel = %+v", s)
	}
}

func TestSubscriptionHandler_Plans(t *testing.T) {
	api := newTestAPI(t)

	rr := httptest.NewRecorder()
	api.subscription.Plans(rr, newRequest(t, http.MethodGet, "/api/v1/plans", "", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var plans []subscription.PlanInfo
	decodeEnvelope(t, rr, &plans)
	if len(plans) != 3 {
		t.Errorf("plans = %d, want 3", len(plans))
	}
}

func TestProfileHandler_UpdateAndGet(t *testing.T) {
	api := newTestAPI(t)

	body := dto.UpdateProfileRequest{
		Conditions: []string{" Diabetes ", profile.ConditionCeliac, "diabetes"},
		Goals:      []string{profile.GoalReduceSugar},
	}
	rr := httptest.NewRecorder()
	api.profile.Update(rr, newRequest(t, http.MethodPut, "/api/v1/profile", "u1", body))
	if rr.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	api.profile.Get(rr, newRequest(t, http.MethodGet, "/api/v1/profile", "u1", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}

	var p profile.HealthProfile
	decodeEnvelope(t, rr, &p)
	if len(p.Conditions) != 2 || p.Conditions[0] != profile.ConditionDiabetes {
		t.Errorf("conditions = %v, want [diabetes celiaquia]", p.Conditions)
	}
	if len(p.Goals) != 1 || p.Goals[0] != profile.GoalReduceSugar {
		t.Errorf("goals = %v", p.Goals)
	}
}

func TestProfileHandler_Options(t *testing.T) {
	api := newTestAPI(t)

	rr := httptest.NewRecorder()
	api.profile.Options(rr, newRequest(t, http.MethodGet, "/api/v1/profile/options", "", nil))

	var opts dto.ProfileOptions
	decodeEnvelope(t, rr, &opts)
	if len(opts.Conditions) != len(profile.Conditions) || len(opts.Goals) != len(profile.Goals) {
		t.Errorf("options = %d conditions, %d goals", len(opts.Conditions), len(opts.Goals))
	}
}
