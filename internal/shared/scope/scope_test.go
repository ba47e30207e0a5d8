package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	assert.NoError(t, System.Check())
	assert.ErrorIs(t, None.Check(), ErrSystemScopeRequired)
	assert.ErrorIs(t, WriteScope("user").Check(), ErrSystemScopeRequired)
}
