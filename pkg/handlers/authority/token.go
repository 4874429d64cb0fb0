/*
 * Copyright (C) 2025-2026, Advanced Micro Devices, Inc. All rights reserved.
 * See LICENSE for license information.
 */

package authority

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	commonconfig "github.com/dinobot22/mineru-tianshu/pkg/config"
)

const (
	TokenExpire  = "The user's token has expired, please login again"
	InvalidToken = "The user's token is invalid, please login first"

	TokenDelim = ":"
)

// TokenItem is the payload of an API token.
type TokenItem struct {
	UserId   string
	UserType string
	Expire   int64
}

// GenerateToken renders and signs a token for the given item:
// base64(userId:expire:userType:sig) with an HMAC-SHA256 signature over the
// first three fields, keyed by the configured token key.
func GenerateToken(item TokenItem) (string, error) {
	if item.UserId == "" {
		return "", fmt.Errorf("invalid token item parameters")
	}
	key := commonconfig.GetTokenKey()
	if key == "" {
		return "", fmt.Errorf("the token key is not configured")
	}
	payload := item.UserId + TokenDelim + strconv.FormatInt(item.Expire, 10) + TokenDelim + item.UserType
	return base64.StdEncoding.EncodeToString([]byte(payload + TokenDelim + sign(payload, key))), nil
}

// validateToken decodes and verifies a token string, returning its payload.
func validateToken(token string) (*TokenItem, error) {
	key := commonconfig.GetTokenKey()
	if key == "" {
		return nil, fmt.Errorf("the token key is not configured")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("invalid token")
	}
	parts := strings.Split(string(raw), TokenDelim)
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid token")
	}
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("invalid token")
		}
	}
	payload := strings.Join(parts[:3], TokenDelim)
	if !hmac.Equal([]byte(sign(payload, key)), []byte(parts[3])) {
		return nil, fmt.Errorf("invalid token signature")
	}
	expire, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid token")
	}
	if expire > 0 && time.Now().Unix() > expire {
		return nil, fmt.Errorf("%s", TokenExpire)
	}
	return &TokenItem{UserId: parts[0], Expire: expire, UserType: parts[2]}, nil
}

func sign(payload, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
