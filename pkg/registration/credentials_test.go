package registration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testName  = "testName"
	testEmail = "test@wire.com"
	testCode  = "000000"
)

func TestSaveEmail(t *testing.T) {
	c := NewEmailCredentials()
	c.SaveEmail(testEmail)
	assert.Equal(t, testEmail, c.Email())
}

func TestSaveActivationCode(t *testing.T) {
	c := NewEmailCredentials()
	c.SaveActivationCode(testCode)
	assert.Equal(t, testCode, c.ActivationCode())
}

func TestSaveName(t *testing.T) {
	c := NewEmailCredentials()
	c.SaveName(testName)
	assert.Equal(t, testName, c.Name())
}

func TestUnsetFieldsAreEmpty(t *testing.T) {
	c := NewEmailCredentials()
	assert.Empty(t, c.Email())
	assert.Empty(t, c.ActivationCode())
	assert.Empty(t, c.Name())

	c.SaveEmail(testEmail)
	assert.Empty(t, c.ActivationCode())
	assert.Empty(t, c.Name())
}

func TestZeroValueUsable(t *testing.T) {
	var c EmailCredentials
	c.SaveName(testName)
	assert.Equal(t, testName, c.Name())
}

func TestCredentialsSnapshotAndReset(t *testing.T) {
	c := NewEmailCredentials()
	c.SaveEmail(testEmail)
	c.SaveActivationCode(testCode)
	c.SaveName(testName)

	snap := c.Credentials()
	assert.Equal(t, Credentials{Email: testEmail, ActivationCode: testCode, Name: testName}, snap)

	c.SaveEmail("other@wire.com")
	assert.Equal(t, testEmail, snap.Email)

	c.Reset()
	assert.Equal(t, Credentials{}, c.Credentials())
}
