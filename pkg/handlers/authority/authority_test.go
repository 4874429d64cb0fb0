/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package authority

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/whoami", Authorize(), func(c *gin.Context) {
		principal := FromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": principal.UserId, "userType": principal.UserType})
	})
	return engine
}

func TestPrincipalPermissions(t *testing.T) {
	admin := &Principal{UserId: "root", UserType: UserTypeAdmin}
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.GlobalView())
	assert.True(t, admin.Can(PermAdmin))

	user := &Principal{UserId: "alice", UserType: UserTypeNormal}
	assert.False(t, user.IsAdmin())
	assert.False(t, user.GlobalView())
	assert.True(t, user.Can(PermTaskSubmit))
	assert.True(t, user.Can(PermQueueView))
	assert.False(t, user.Can(PermAdmin))

	var nobody *Principal
	assert.False(t, nobody.Can(PermTaskSubmit))
}

func TestTokenRoundTrip(t *testing.T) {
	commonconfig.SetValue("apiserver.token_key", "unit-test-key")
	t.Cleanup(func() { commonconfig.SetValue("apiserver.token_key", "") })

	token, err := GenerateToken(TokenItem{
		UserId:   "alice",
		UserType: UserTypeNormal,
		Expire:   time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	item, err := validateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", item.UserId)
	assert.Equal(t, UserTypeNormal, item.UserType)

	_, err = validateToken(token + "x")
	assert.Error(t, err)

	expired, err := GenerateToken(TokenItem{
		UserId:   "alice",
		UserType: UserTypeNormal,
		Expire:   time.Now().Add(-time.Hour).Unix(),
	})
	require.NoError(t, err)
	_, err = validateToken(expired)
	assert.Error(t, err)
}

func TestAuthorizeOpenMode(t *testing.T) {
	engine := newAuthRouter()

	t.Run("identity headers are trusted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(HeaderUserId, "alice")
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userId":"alice"`)
		assert.Contains(t, w.Body.String(), `"userType":"user"`)
	})

	t.Run("no identity falls back to anonymous admin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userId":"anonymous"`)
		assert.Contains(t, w.Body.String(), `"userType":"admin"`)
	})
}

func TestAuthorizeTokenRequired(t *testing.T) {
	commonconfig.SetValue("apiserver.token_required", true)
	commonconfig.SetValue("apiserver.token_key", "unit-test-key")
	t.Cleanup(func() {
		commonconfig.SetValue("apiserver.token_required", false)
		commonconfig.SetValue("apiserver.token_key", "")
	})
	engine := newAuthRouter()

	t.Run("missing token is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(HeaderUserId, "alice") // headers are not enough
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bearer token resolves the principal", func(t *testing.T) {
		token, err := GenerateToken(TokenItem{
			UserId:   "bob",
			UserType: UserTypeAdmin,
			Expire:   time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(HeaderAuthorization, BearerPrefix+token)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userId":"bob"`)
	})

	t.Run("api key header works too", func(t *testing.T) {
		token, err := GenerateToken(TokenItem{
			UserId:   "carol",
			UserType: UserTypeNormal,
			Expire:   time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set(HeaderApiKey, token)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"userId":"carol"`)
	})
}
