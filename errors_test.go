package sparrow_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcschoo/Sparrow"
)

func TestUpstreamError_IsBadGateway(t *testing.T) {
	for _, kind := range []sparrow.UpstreamKind{
		sparrow.KindUnavailable, sparrow.KindTimeout, sparrow.KindStatus, sparrow.KindInvalidResponse,
	} {
		err := fmt.Errorf("relay: %w", &sparrow.UpstreamError{Kind: kind, Err: errors.New("x")})
		assert.ErrorIs(t, err, sparrow.ErrBadGateway, kind)
		assert.Equal(t, kind, sparrow.KindOf(err))
	}
}

func TestUpstreamError_Unwrap(t *testing.T) {
	err := &sparrow.UpstreamError{Kind: sparrow.KindTimeout, Err: context.DeadlineExceeded}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestUpstreamError_Messages(t *testing.T) {
	cause := errors.New("cause")
	tests := []struct {
		err  *sparrow.UpstreamError
		want string
	}{
		{&sparrow.UpstreamError{Kind: sparrow.KindUnavailable, Err: cause}, "coordinator unreachable: cause"},
		{&sparrow.UpstreamError{Kind: sparrow.KindTimeout, Err: cause}, "coordinator timed out: cause"},
		{&sparrow.UpstreamError{Kind: sparrow.KindStatus, StatusCode: 503}, "coordinator returned status 503"},
		{&sparrow.UpstreamError{Kind: sparrow.KindStatus, StatusCode: 500, Err: cause}, "coordinator returned status 500: cause"},
		{&sparrow.UpstreamError{Kind: sparrow.KindInvalidResponse, Err: cause}, "coordinator returned invalid JSON: cause"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestKindOf_Other(t *testing.T) {
	assert.Equal(t, sparrow.UpstreamKind(""), sparrow.KindOf(errors.New("plain")))
	assert.Equal(t, sparrow.UpstreamKind(""), sparrow.KindOf(nil))
	assert.NotErrorIs(t, errors.New("plain"), sparrow.ErrBadGateway)
}
