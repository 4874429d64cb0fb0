/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

// Package authority resolves the request principal the task core consumes.
// Token issuance and SSO flows live outside this repository; this package
// only validates already-issued tokens and, in open mode, trusts plain
// identity headers from the gateway.
package authority

import (
	"strings"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
	commonerrors "github.com/dinobot22/mineru-tianshu/pkg/errors"
	"github.com/dinobot22/mineru-tianshu/pkg/utils"
)

// Header and context keys.
const (
	HeaderAuthorization = "Authorization"
	HeaderApiKey        = "X-Api-Key"
	HeaderUserId        = "X-Userid"
	HeaderUserType      = "X-User-Type"

	BearerPrefix = "Bearer "

	ContextPrincipal = "principal"
)

// Authorize returns the gin middleware that resolves and attaches the
// request principal. Requests without a resolvable principal are rejected
// with 401 when tokens are required.
func Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := resolvePrincipal(c)
		if err != nil {
			utils.AbortWithApiError(c, err)
			return
		}
		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// FromContext returns the principal attached by Authorize.
func FromContext(c *gin.Context) *Principal {
	if val, ok := c.Get(ContextPrincipal); ok {
		if principal, ok := val.(*Principal); ok {
			return principal
		}
	}
	return nil
}

func resolvePrincipal(c *gin.Context) (*Principal, error) {
	if token := extractToken(c); token != "" {
		item, err := validateToken(token)
		if err != nil {
			klog.ErrorS(err, "failed to validate user token")
			return nil, commonerrors.NewUnauthorized(InvalidToken)
		}
		return &Principal{UserId: item.UserId, UserName: item.UserId, UserType: item.UserType}, nil
	}
	if commonconfig.IsUserTokenRequired() {
		return nil, commonerrors.NewUnauthorized(InvalidToken)
	}
	// Open mode: identity headers from a trusted gateway, or the anonymous
	// admin for single-operator deployments.
	if userId := c.GetHeader(HeaderUserId); userId != "" {
		userType := c.GetHeader(HeaderUserType)
		if userType != UserTypeAdmin {
			userType = UserTypeNormal
		}
		return &Principal{UserId: userId, UserName: userId, UserType: userType}, nil
	}
	return &Principal{UserId: AnonymousUserId, UserName: AnonymousUserId, UserType: UserTypeAdmin}, nil
}

func extractToken(c *gin.Context) string {
	if auth := c.GetHeader(HeaderAuthorization); strings.HasPrefix(auth, BearerPrefix) {
		return strings.TrimPrefix(auth, BearerPrefix)
	}
	return c.GetHeader(HeaderApiKey)
}
