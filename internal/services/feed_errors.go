package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
)

// TransportError means the request never produced an HTTP response: timeout, DNS, refused connection.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseFormatError covers non-success statuses and bodies that do not decode into the expected shape.
type ResponseFormatError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *ResponseFormatError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s returned HTTP %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s response could not be processed: %v", e.Endpoint, e.Err)
}

func (e *ResponseFormatError) Unwrap() error { return e.Err }

// EmptyResultError is a well-formed response with zero items.
type EmptyResultError struct {
	Endpoint string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s returned no videos", e.Endpoint)
}

// PartialEnrichmentFailure is raised when the statistics backfill failed outright (Err) or
// left some records without statistics (MissingIDs). The feed itself is still usable.
type PartialEnrichmentFailure struct {
	MissingIDs []string
	Err        error
}

func (e *PartialEnrichmentFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("statistics backfill failed: %v", e.Err)
	}
	return fmt.Sprintf("statistics missing for %d video(s): %s", len(e.MissingIDs), strings.Join(e.MissingIDs, ","))
}

func (e *PartialEnrichmentFailure) Unwrap() error { return e.Err }

// classifyError maps an API client error onto the feed error taxonomy.
func classifyError(endpoint string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &ResponseFormatError{Endpoint: endpoint, StatusCode: apiErr.Code, Err: err}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &TransportError{Endpoint: endpoint, Err: err}
	}

	return &ResponseFormatError{Endpoint: endpoint, Err: err}
}

// UserMessage is the dashboard notice for a fetch problem or warning.
func UserMessage(err error) string {
	var (
		transportErr *TransportError
		formatErr    *ResponseFormatError
		emptyErr     *EmptyResultError
		partialErr   *PartialEnrichmentFailure
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &transportErr):
		return "네트워크 오류가 발생했습니다: " + transportErr.Err.Error()
	case errors.As(err, &formatErr):
		return "YouTube API 응답을 처리할 수 없습니다."
	case errors.As(err, &emptyErr):
		return "YouTube API에서 데이터를 가져올 수 없습니다."
	case errors.As(err, &partialErr):
		return "조회수 정보를 가져오는 중 오류가 발생했습니다: " + partialErr.Error()
	default:
		return "예상치 못한 오류가 발생했습니다: " + err.Error()
	}
}

// outcomeLabel is the metrics label for a fetch result.
func outcomeLabel(res FeedResult) string {
	var (
		transportErr *TransportError
		formatErr    *ResponseFormatError
		emptyErr     *EmptyResultError
	)
	switch {
	case res.Problem == nil && len(res.Warnings) > 0:
		return "partial"
	case res.Problem == nil:
		return "ok"
	case errors.As(res.Problem, &transportErr):
		return "transport"
	case errors.As(res.Problem, &formatErr):
		return "format"
	case errors.As(res.Problem, &emptyErr):
		return "empty"
	default:
		return "error"
	}
}
