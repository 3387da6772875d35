package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckerAllowsOrdinaryCode(t *testing.T) {
	c := NewChecker()

	for _, src := range []string{
		"",
		"counter = counter + 1",
		"armed and tries < 3",
		"print('entering', state_name)",
		"readings = [1, 2, 3]; total = len(readings)",
	} {
		ok, reason := c.Check(src)
		assert.True(t, ok, src)
		assert.Empty(t, reason, src)
	}
}

func TestCheckerBlocksDeniedIdentifiers(t *testing.T) {
	c := NewChecker()

	for _, src := range []string{
		"import os",
		"eval('1+1')",
		"open('/etc/passwd')",
		"x = system('ls')",
		"subprocess",
		"getattr(a, 'b')",
	} {
		ok, reason := c.Check(src)
		assert.False(t, ok, src)
		assert.NotEmpty(t, reason, src)
	}
}

func TestCheckerBlocksDunderIdentifiers(t *testing.T) {
	c := NewChecker()

	ok, reason := c.Check("x = __secrets__")
	assert.False(t, ok)
	assert.Contains(t, reason, "__secrets__")
}

func TestCheckerDoesNotFlagStringContents(t *testing.T) {
	c := NewChecker()

	// Denied words inside string literals are data, not code.
	ok, _ := c.Check("msg = 'please import nothing'")
	assert.True(t, ok)
}

func TestCheckerCachesVerdicts(t *testing.T) {
	c := NewChecker()

	ok1, _ := c.Check("import os")
	ok2, _ := c.Check("import os")
	assert.False(t, ok1)
	assert.False(t, ok2)
	assert.Len(t, c.verdicts, 1)
}
