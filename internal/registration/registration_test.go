package registration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullPersonalFields() map[string]string {
	fields := make(map[string]string, len(PersonalFields))
	for _, name := range PersonalFields {
		fields[name] = "value-" + name
	}
	fields["gender"] = "female"
	return fields
}

func TestCanCompletePersonal_AllFieldsPresent(t *testing.T) {
	next, err := CanCompletePersonal(New, "9999999999", fullPersonalFields())
	require.NoError(t, err)
	assert.Equal(t, PersonalInfoDone, next)
}

func TestCanCompletePersonal_EachMissingFieldIsNamed(t *testing.T) {
	for _, name := range PersonalFields {
		for _, blank := range []string{"", "   ", "\t\n"} {
			fields := fullPersonalFields()
			if blank == "" {
				delete(fields, name)
			} else {
				fields[name] = blank
			}
			next, err := CanCompletePersonal(New, "9999999999", fields)
			var pe *PreconditionError
			require.True(t, errors.As(err, &pe), "field %s", name)
			assert.Equal(t, []string{name}, pe.Missing)
			assert.Equal(t, New, next)
		}
	}
}

func TestCanCompletePersonal_ListsAllMissingInOrder(t *testing.T) {
	_, err := CanCompletePersonal(New, "9999999999", map[string]string{"full_name": "A"})
	var pe *PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, PersonalFields[1:], pe.Missing)
	assert.Contains(t, pe.Error(), "current_address")
}

func TestCanCompletePersonal_RequiresMobileOnRecord(t *testing.T) {
	_, err := CanCompletePersonal(New, "  ", fullPersonalFields())
	var pe *PreconditionError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, []string{"mobile_number"}, pe.Missing)
}

func TestCanCompletePersonal_RejectsRepeat(t *testing.T) {
	for _, s := range []Status{PersonalInfoDone, BankInfoDone, Verified} {
		next, err := CanCompletePersonal(s, "9999999999", fullPersonalFields())
		var pe *PreconditionError
		require.True(t, errors.As(err, &pe), "status %d", s)
		assert.Empty(t, pe.Missing)
		assert.Equal(t, s, pe.Status)
		assert.Equal(t, s, next)
	}
}

func TestCanAddBankDetails(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		want    Status
		wantErr bool
	}{
		{name: "new user is rejected", current: New, want: New, wantErr: true},
		{name: "personal info done advances", current: PersonalInfoDone, want: BankInfoDone},
		{name: "bank info done stays", current: BankInfoDone, want: BankInfoDone},
		{name: "verified never lowers", current: Verified, want: Verified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanAddBankDetails(tt.current)
			if tt.wantErr {
				var pe *PreconditionError
				require.True(t, errors.As(err, &pe))
				assert.Equal(t, tt.current, pe.Status)
				assert.Contains(t, pe.Error(), "status is 0")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, int(got), int(tt.current))
		})
	}
}

func TestCanCompletePoliceVerification_ExactMatch(t *testing.T) {
	next, err := CanCompletePoliceVerification(BankInfoDone)
	require.NoError(t, err)
	assert.Equal(t, Verified, next)

	for _, s := range []Status{New, PersonalInfoDone, Verified} {
		next, err := CanCompletePoliceVerification(s)
		var pe *PreconditionError
		require.True(t, errors.As(err, &pe), "status %d", s)
		assert.Equal(t, s, pe.Status)
		assert.Equal(t, s, next, "rejected transition must not change status")
	}
}

func TestStatusMonotonicAcrossWorkflow(t *testing.T) {
	s := New
	steps := []func(Status) (Status, error){
		func(s Status) (Status, error) { return CanCompletePoliceVerification(s) },
		func(s Status) (Status, error) { return CanAddBankDetails(s) },
		func(s Status) (Status, error) { return CanCompletePersonal(s, "9999999999", fullPersonalFields()) },
		func(s Status) (Status, error) { return CanCompletePoliceVerification(s) },
		func(s Status) (Status, error) { return CanAddBankDetails(s) },
		func(s Status) (Status, error) { return CanCompletePoliceVerification(s) },
		func(s Status) (Status, error) { return CanCompletePersonal(s, "9999999999", fullPersonalFields()) },
		func(s Status) (Status, error) { return CanAddBankDetails(s) },
	}
	for i, step := range steps {
		next, _ := step(s)
		require.GreaterOrEqual(t, int(next), int(s), "step %d", i)
		s = next
	}
	assert.Equal(t, Verified, s)
}

func TestNextStep(t *testing.T) {
	assert.Equal(t, "Add bank details", NextStep(PersonalInfoDone))
	assert.Equal(t, "Complete police verification", NextStep(BankInfoDone))
	assert.Empty(t, NextStep(Status(7)))
	assert.False(t, Status(7).Valid())
	assert.Equal(t, "verified", Verified.String())
}
