package validate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukit/edukit/pkg/validate"
)

func TestErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty set is valid", func(t *testing.T) {
		t.Parallel()

		errs := validate.Errors{}
		require.True(t, errs.Valid())
		require.False(t, errs.Has("code"))
		require.Empty(t, errs.Get("code"))
		require.Empty(t, errs.Error())
	})

	t.Run("add preserves per-field order", func(t *testing.T) {
		t.Parallel()

		errs := validate.Errors{}
		errs.Add("code", "code is required")
		errs.Add("code", "code must be uppercase")

		require.False(t, errs.Valid())
		require.True(t, errs.Has("code"))
		require.Equal(t, "code is required", errs.Get("code"), "Get returns the first message")
		require.Equal(t, []string{"code is required", "code must be uppercase"}, errs["code"])
	})

	t.Run("error output sorts fields", func(t *testing.T) {
		t.Parallel()

		errs := validate.Errors{}
		errs.Add("percent", "percent must be between 1 and 100")
		errs.Add("code", "code is required")
		errs.Add("code", "code must be uppercase")

		want := "code: code is required, code must be uppercase; percent: percent must be between 1 and 100"
		require.Equal(t, want, errs.Error())
		require.Equal(t, want, errs.Error(), "output is stable across calls")
	})

	t.Run("works as a plain error", func(t *testing.T) {
		t.Parallel()

		fail := func() error {
			errs := validate.Errors{}
			errs.Add("endDate", "end date must be after start date")
			return errs
		}

		err := fail()
		require.Error(t, err)

		var errs validate.Errors
		require.ErrorAs(t, err, &errs)
		require.True(t, errs.Has("endDate"))
	})
}
