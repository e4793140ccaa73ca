package logger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErr_WrapsAndPreservesCause(t *testing.T) {
	log := New("test").Function("TestErr")

	cause := errors.New("boom")
	err := log.Err("failed to do the thing", cause, "key", "value")

	require.Error(t, err)
	assert.Equal(t, "failed to do the thing: boom", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestError_ReturnsMessage(t *testing.T) {
	log := New("test")

	err := log.Error("something is empty", "field", "name")
	require.Error(t, err)
	assert.Equal(t, "something is empty", err.Error())

	err = log.ErrMsg("plain message")
	require.Error(t, err)
	assert.Equal(t, "plain message", err.Error())
}

func TestFunctionAndFile_DoNotMutateReceiver(t *testing.T) {
	base := New("scope")
	withFn := base.Function("DoWork")
	withFile := base.File("worker")

	assert.Empty(t, base.function)
	assert.Empty(t, base.file)
	assert.Equal(t, "DoWork", withFn.function)
	assert.Equal(t, "worker", withFile.file)
}

func TestZeroValueLoggerIsUsable(t *testing.T) {
	var log Logger

	assert.NotPanics(t, func() {
		log.Info("info from zero value")
		log.Warn("warn from zero value")
		log.Er("er from zero value", fmt.Errorf("x"))
	})

	err := log.ErrMsg("still returns an error")
	assert.Error(t, err)
}
