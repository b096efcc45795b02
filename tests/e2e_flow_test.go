package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ashrafosamaa/gym-management-sys/internal/config"
	"github.com/ashrafosamaa/gym-management-sys/internal/server"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGoldenPath walks the full lifecycle: the king creates an admin, the
// admin opens a branch and hires a trainer, a member signs up, buys a
// membership, books the trainer and rates them once.
func TestGoldenPath(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	// 1. Infrastructure: MongoDB container + miniredis.
	db, cleanupDB := SetupTestDB(t)
	defer cleanupDB()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	notifier := NewCapturingNotifier()
	media := NewMemoryMediaStore()

	cfg := &config.Config{}
	cfg.Server.MaxUploadSizeMB = 10
	cfg.JWT.Secret = "test-secret-key-123"
	cfg.JWT.ExpiryHours = 24
	cfg.JWT.RefreshSecret = "test-refresh-key-123"
	cfg.JWT.RefreshExpDays = 7
	cfg.Policy.ListEmptyAsNotFound = false

	SeedKingAdmin(t, db, "king", "king-password-1")

	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		MongoDB:     db,
		RedisClient: redisClient,
		Media:       media,
		Notifier:    notifier,
	})

	request := func(method, path, token string, body interface{}) *http.Response {
		var bodyReader io.Reader
		if body != nil {
			jsonBytes, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(jsonBytes)
		}
		req, _ := http.NewRequest(method, path, bodyReader)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	decode := func(resp *http.Response) map[string]interface{} {
		defer resp.Body.Close()
		var out map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	decodeList := func(resp *http.Response) []map[string]interface{} {
		defer resp.Body.Close()
		var out []map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	login := func(path string, body interface{}) string {
		resp := request("POST", path, "", body)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		out := decode(resp)
		token, _ := out["access_token"].(string)
		require.NotEmpty(t, token)
		return token
	}

	futureDate := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")

	// ==========================================
	// STEP 1: King bootstraps the back office
	// ==========================================
	kingToken := login("/v1/auth/admin/login", map[string]string{
		"username": "king",
		"password": "king-password-1",
	})

	resp := request("POST", "/v1/admins", kingToken, map[string]string{
		"username": "frontdesk",
		"password": "frontdesk-pass-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	adminToken := login("/v1/auth/admin/login", map[string]string{
		"username": "frontdesk",
		"password": "frontdesk-pass-1",
	})

	// ==========================================
	// STEP 2: Admin opens a branch and hires a trainer
	// ==========================================
	resp = request("POST", "/v1/branches", adminToken, map[string]string{
		"name":        "Downtown",
		"description": "Flagship location",
		"address":     "1 Main St",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	branch := decode(resp)
	branchID := branch["id"].(string)
	assert.Equal(t, true, branch["is_active"])

	resp = request("POST", "/v1/trainers", adminToken, map[string]interface{}{
		"user_name":       "coach_omar",
		"description":     "Strength coach",
		"experience":      5,
		"branch_id":       branchID,
		"phone_number":    "+201001112233",
		"gender":          "male",
		"specialization":  "Bodybuilding",
		"price_per_month": 250,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	trainer := decode(resp)
	trainerID := trainer["id"].(string)
	assert.Equal(t, false, trainer["is_active"], "trainer is hidden until first login")

	// The one-use password delivered out of band is the trainer's phone number.
	oneUse, ok := notifier.TrainerCredentials["+201001112233"]
	require.True(t, ok, "trainer credentials were not sent")
	require.Equal(t, "+201001112233", oneUse)

	trainerToken := login("/v1/auth/trainer/first-login", map[string]string{
		"user_name":        "coach_omar",
		"one_use_password": oneUse,
		"new_password":     "trainer-pass-99",
	})
	require.NotEmpty(t, trainerToken)

	// Now visible in the public directory.
	resp = request("GET", "/v1/trainers/"+trainerID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	trainer = decode(resp)
	assert.Equal(t, true, trainer["is_active"])

	// ==========================================
	// STEP 3: Member signs up, confirms, logs in
	// ==========================================
	resp = request("POST", "/v1/auth/user/signup", "", map[string]interface{}{
		"first_name":   "Sara",
		"last_name":    "Adel",
		"email":        "sara@example.com",
		"phone_number": "+201009998877",
		"password":     "member-pass-77",
		"gender":       "female",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	code, ok := notifier.ActivationCodes["sara@example.com"]
	require.True(t, ok, "activation code was not sent")

	resp = request("POST", "/v1/auth/user/confirm", "", map[string]string{
		"email": "sara@example.com",
		"code":  code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	userToken := login("/v1/auth/user/login", map[string]string{
		"email":    "sara@example.com",
		"password": "member-pass-77",
	})

	// ==========================================
	// STEP 4: Membership purchase and activation
	// ==========================================

	// Booking a trainer without an active paid membership is rejected.
	resp = request("POST", "/v1/subscriptions/my", userToken, map[string]interface{}{
		"trainer_id": trainerID,
		"duration":   1,
		"start_date": futureDate,
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = request("POST", "/v1/memberships/my", userToken, map[string]interface{}{
		"branch_id":  branchID,
		"duration":   3,
		"start_date": futureDate,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	membership := decode(resp)
	membershipID := membership["id"].(string)
	assert.Equal(t, float64(950), membership["price"])
	assert.Equal(t, false, membership["is_active"])
	assert.Equal(t, false, membership["is_paid"])

	// Front desk takes the payment and activates the contract.
	resp = request("PATCH", "/v1/memberships/"+membershipID, adminToken, map[string]interface{}{
		"is_paid":   true,
		"is_active": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	membership = decode(resp)
	assert.Equal(t, true, membership["is_active"])
	assert.Equal(t, true, membership["is_paid"])

	// An active membership cannot be rescheduled by the member.
	resp = request("PATCH", "/v1/memberships/my/"+membershipID, userToken, map[string]interface{}{
		"duration": 6,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// ==========================================
	// STEP 5: Personal training subscription
	// ==========================================
	resp = request("POST", "/v1/subscriptions/my", userToken, map[string]interface{}{
		"trainer_id": trainerID,
		"duration":   1,
		"start_date": futureDate,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sub := decode(resp)
	subID := sub["id"].(string)
	assert.Equal(t, float64(250), sub["price"])
	assert.Equal(t, branchID, sub["branch_id"], "branch is pinned from the trainer")

	// Back-office reporting: per-user and per-branch listings.
	memberUserID := membership["user_id"].(string)
	resp = request("GET", "/v1/memberships/user/"+memberUserID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(resp), 1)

	resp = request("GET", "/v1/subscriptions/user/"+memberUserID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(resp), 1)

	resp = request("GET", "/v1/subscriptions/branch/"+branchID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(resp), 1)

	// ==========================================
	// STEP 6: One-shot trainer rating
	// ==========================================
	resp = request("POST", "/v1/subscriptions/my/"+subID+"/rate", userToken, map[string]interface{}{
		"rate":    4,
		"comment": "Great sessions",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = request("GET", "/v1/trainers/"+trainerID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	trainer = decode(resp)
	assert.Equal(t, float64(4), trainer["rate"])
	assert.Equal(t, float64(1), trainer["rate_count"])

	// A subscription feeds the average exactly once.
	resp = request("POST", "/v1/subscriptions/my/"+subID+"/rate", userToken, map[string]interface{}{
		"rate":    1,
		"comment": "Changed my mind",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = request("GET", "/v1/trainers/"+trainerID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	trainer = decode(resp)
	assert.Equal(t, float64(1), trainer["rate_count"])
}

// TestRoleBoundaries checks that member tokens cannot reach admin surfaces
// and vice versa.
func TestRoleBoundaries(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	db, cleanupDB := SetupTestDB(t)
	defer cleanupDB()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	cfg := &config.Config{}
	cfg.Server.MaxUploadSizeMB = 10
	cfg.JWT.Secret = "test-secret-key-123"
	cfg.JWT.ExpiryHours = 24
	cfg.JWT.RefreshSecret = "test-refresh-key-123"
	cfg.JWT.RefreshExpDays = 7

	SeedKingAdmin(t, db, "king", "king-password-1")

	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		MongoDB:     db,
		RedisClient: redisClient,
		Media:       NewMemoryMediaStore(),
		Notifier:    NewCapturingNotifier(),
	})

	request := func(method, path, token string, body interface{}) *http.Response {
		var bodyReader io.Reader
		if body != nil {
			jsonBytes, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(jsonBytes)
		}
		req, _ := http.NewRequest(method, path, bodyReader)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}

	// Unauthenticated admin surface.
	resp := request("GET", "/v1/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = request("POST", "/v1/auth/admin/login", "", map[string]string{
		"username": "king",
		"password": "king-password-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokenResp))
	resp.Body.Close()
	kingToken := tokenResp.AccessToken

	// Admin creation is king-only: a plain admin is rejected.
	resp = request("POST", "/v1/admins", kingToken, map[string]string{
		"username": "frontdesk",
		"password": "frontdesk-pass-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = request("POST", "/v1/auth/admin/login", "", map[string]string{
		"username": "frontdesk",
		"password": "frontdesk-pass-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tokenResp))
	resp.Body.Close()
	adminToken := tokenResp.AccessToken

	resp = request("POST", "/v1/admins", adminToken, map[string]string{
		"username": "intruder",
		"password": "intruder-pass-1",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The king passes admin-scoped checks.
	resp = request("POST", "/v1/branches", kingToken, map[string]string{
		"name":    "Downtown",
		"address": "1 Main St",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// King cannot be deleted, not even by itself.
	resp = request("GET", "/v1/admins", kingToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var admins []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&admins))
	resp.Body.Close()

	var kingID string
	for _, a := range admins {
		if a["role"] == "king" {
			kingID = a["id"].(string)
		}
	}
	require.NotEmpty(t, kingID)

	resp = request("DELETE", fmt.Sprintf("/v1/admins/%s", kingID), kingToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
