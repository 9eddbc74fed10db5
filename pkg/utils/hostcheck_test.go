package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/linkplace/placeflow/pkg/utils"
)

func TestCheckTargetHost(t *testing.T) {
	testCases := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "public address", baseURL: "http://203.0.113.10", wantErr: false},
		{name: "public address with port", baseURL: "https://203.0.113.10:8443", wantErr: false},
		{name: "loopback", baseURL: "http://127.0.0.1", wantErr: true},
		{name: "loopback with port", baseURL: "http://127.0.0.1:8080", wantErr: true},
		{name: "private 10/8", baseURL: "http://10.0.0.5", wantErr: true},
		{name: "private 192.168/16", baseURL: "https://192.168.1.1", wantErr: true},
		{name: "link local", baseURL: "http://169.254.169.254", wantErr: true},
		{name: "unspecified", baseURL: "http://0.0.0.0", wantErr: true},
		{name: "ipv6 loopback", baseURL: "http://[::1]:3000", wantErr: true},
		{name: "bad scheme", baseURL: "ftp://203.0.113.10", wantErr: true},
		{name: "no host", baseURL: "http://", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := utils.CheckTargetHost(tc.baseURL)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
