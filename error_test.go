package bconnect_test

import (
	"fmt"
	"testing"

	"github.com/advdv/bconnect"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	err1 := bconnect.NewError(bconnect.CodeBadRequest, errors.New("foo"))
	require.Equal(t, bconnect.Code(400), err1.Code())
	require.Equal(t, bconnect.CodeBadRequest, bconnect.CodeOf(err1))
	require.Equal(t, "Bad Request: foo", err1.Error())

	require.Equal(t, bconnect.CodeUnknown, bconnect.CodeOf(errors.New("bar")))
	require.Equal(t, "Unknown: rab", bconnect.NewError(900, errors.New("rab")).Error())
	require.Equal(t, "Gone", bconnect.NewError(bconnect.CodeGone, nil).Error())
}

func TestErrorCodeThroughWrapping(t *testing.T) {
	err := errors.Wrap(bconnect.NewError(bconnect.CodeConflict, errors.New("taken")), "create user")
	require.Equal(t, bconnect.CodeConflict, bconnect.CodeOf(err))
	require.Equal(t, "create user: Conflict: taken", err.Error())
}

func TestErrorVerboseFormatIncludesStack(t *testing.T) {
	err := bconnect.NewError(bconnect.CodeTeapot, errors.New("short and stout"))

	verbose := fmt.Sprintf("%+v", err)
	require.Contains(t, verbose, "short and stout")
	require.Contains(t, verbose, "TestErrorVerboseFormatIncludesStack")
}

func TestIsErrorCode(t *testing.T) {
	for code, want := range map[bconnect.Code]bool{
		bconnect.CodeUnknown:             false,
		200:                              false,
		399:                              false,
		bconnect.CodeBadRequest:          true,
		bconnect.CodeInternalServerError: true,
		599:                              true,
		600:                              false,
	} {
		require.Equal(t, want, bconnect.IsErrorCode(code), code)
	}
}
