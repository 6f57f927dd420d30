package contact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContact(t *testing.T) {
	phones := NewPhoneNormalizer("US")

	t.Run("normalizes phone and email", func(t *testing.T) {
		c, err := NewContact(Details{
			Name:  " Dana Ortiz ",
			Role:  RoleBroker,
			Email: "Dana@Example.COM",
			Phone: "(602) 262-6011",
		}, phones)
		require.NoError(t, err)
		assert.Equal(t, "Dana Ortiz", c.Name)
		assert.Equal(t, "dana@example.com", c.Email)
		assert.Equal(t, "+16022626011", c.Phone)
	})

	t.Run("keeps international numbers", func(t *testing.T) {
		c, err := NewContact(Details{Name: "Lender", Phone: "+44 20 7219 3000"}, phones)
		require.NoError(t, err)
		assert.Equal(t, "+442072193000", c.Phone)
		assert.Equal(t, RoleOther, c.Role)
	})

	t.Run("rejects invalid phone", func(t *testing.T) {
		_, err := NewContact(Details{Name: "X", Phone: "12"}, phones)
		assert.ErrorContains(t, err, "invalid phone number")
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewContact(Details{Name: "X", Email: "not an email"}, phones)
		assert.ErrorContains(t, err, "invalid email")
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		_, err := NewContact(Details{Name: "X", Role: "astronaut"}, phones)
		assert.ErrorContains(t, err, "unknown contact role")
	})
}
