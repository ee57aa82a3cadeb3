package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   string
		wantStatus int
	}{
		{
			name:       "api error status",
			err:        &googleapi.Error{Code: 403, Message: "quotaExceeded"},
			wantKind:   "format",
			wantStatus: 403,
		},
		{
			name:     "wrapped url error",
			err:      fmt.Errorf("do: %w", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}),
			wantKind: "transport",
		},
		{
			name:     "dial error",
			err:      &net.OpError{Op: "dial", Err: errors.New("no route to host")},
			wantKind: "transport",
		},
		{
			name:     "deadline",
			err:      context.DeadlineExceeded,
			wantKind: "transport",
		},
		{
			name:     "decode error",
			err:      errors.New("invalid character '<' looking for beginning of value"),
			wantKind: "format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyError(endpointSearch, tc.err)

			assert.ErrorIs(t, got, tc.err)
			switch tc.wantKind {
			case "transport":
				var te *TransportError
				assert.ErrorAs(t, got, &te)
				assert.Equal(t, endpointSearch, te.Endpoint)
			case "format":
				var fe *ResponseFormatError
				assert.ErrorAs(t, got, &fe)
				assert.Equal(t, tc.wantStatus, fe.StatusCode)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "네트워크 오류가 발생했습니다: timeout",
		UserMessage(&TransportError{Endpoint: endpointChart, Err: errors.New("timeout")}))
	assert.Equal(t, "YouTube API 응답을 처리할 수 없습니다.",
		UserMessage(&ResponseFormatError{Endpoint: endpointChart, StatusCode: 500}))
	assert.Equal(t, "YouTube API에서 데이터를 가져올 수 없습니다.",
		UserMessage(&EmptyResultError{Endpoint: endpointSearch}))
	assert.Contains(t,
		UserMessage(&PartialEnrichmentFailure{MissingIDs: []string{"a", "b"}}),
		"조회수 정보를 가져오는 중 오류가 발생했습니다")
	assert.Equal(t, "예상치 못한 오류가 발생했습니다: boom", UserMessage(errors.New("boom")))
}

func TestOutcomeLabel(t *testing.T) {
	assert.Equal(t, "ok", outcomeLabel(FeedResult{Videos: sampleVideos("a")}))
	assert.Equal(t, "partial", outcomeLabel(FeedResult{
		Videos:   sampleVideos("a"),
		Warnings: []error{&PartialEnrichmentFailure{Err: errors.New("x")}},
	}))
	assert.Equal(t, "transport", outcomeLabel(failed(&TransportError{Err: context.Canceled})))
	assert.Equal(t, "format", outcomeLabel(failed(&ResponseFormatError{})))
	assert.Equal(t, "empty", outcomeLabel(failed(&EmptyResultError{})))
	assert.Equal(t, "error", outcomeLabel(failed(errors.New("other"))))
}

func TestPartialEnrichmentFailureMessage(t *testing.T) {
	missing := &PartialEnrichmentFailure{MissingIDs: []string{"a", "b"}}
	assert.Equal(t, "statistics missing for 2 video(s): a,b", missing.Error())

	cause := errors.New("quota")
	failedCall := &PartialEnrichmentFailure{Err: cause}
	assert.ErrorIs(t, failedCall, cause)
}
