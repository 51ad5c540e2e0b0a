package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RegistrationCodeKey returns the key reserving a course registration code
func (r *CacheKeyStruct) RegistrationCodeKey(code string) string {
	return fmt.Sprintf("course:code:%s", code)
}

// RemoteAccessTokenKey returns the key holding the remote store access token
func (r *CacheKeyStruct) RemoteAccessTokenKey(projectID string) string {
	return fmt.Sprintf("remote:%s:access_token", projectID)
}

// RemoteRefreshTokenKey returns the key holding the remote store refresh token
func (r *CacheKeyStruct) RemoteRefreshTokenKey(projectID string) string {
	return fmt.Sprintf("remote:%s:refresh_token", projectID)
}

var CacheKey = NewCacheKeyStruct()
