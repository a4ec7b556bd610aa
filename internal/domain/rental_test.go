package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition_Ordinary(t *testing.T) {
	tests := []struct {
		from    RentalStatus
		to      RentalStatus
		allowed bool
	}{
		{RentalStatusReserved, RentalStatusActive, true},
		{RentalStatusReserved, RentalStatusCancelled, true},
		{RentalStatusReserved, RentalStatusCompleted, false},
		{RentalStatusReserved, RentalStatusReserved, false},
		{RentalStatusActive, RentalStatusCompleted, true},
		{RentalStatusActive, RentalStatusCancelled, true},
		{RentalStatusActive, RentalStatusReserved, false},
		{RentalStatusCompleted, RentalStatusActive, false},
		{RentalStatusCompleted, RentalStatusCancelled, false},
		{RentalStatusCancelled, RentalStatusReserved, false},
		{RentalStatusCancelled, RentalStatusActive, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := ValidateTransition(tt.from, tt.to, false)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			var illegal *IllegalStatusTransitionError
			require.True(t, errors.As(err, &illegal))
			assert.Equal(t, tt.from, illegal.From)
			assert.Equal(t, tt.to, illegal.To)
		})
	}
}

func TestValidateTransition_Privileged(t *testing.T) {
	assert.NoError(t, ValidateTransition(RentalStatusReserved, RentalStatusCompleted, true))
	assert.NoError(t, ValidateTransition(RentalStatusCancelled, RentalStatusReserved, true))
	assert.NoError(t, ValidateTransition(RentalStatusCompleted, RentalStatusActive, true))

	// Overdue is derived and can never be stored, not even by a superuser
	assert.Error(t, ValidateTransition(RentalStatusActive, RentalStatusOverdue, true))
}

func TestRentalStatus_Properties(t *testing.T) {
	assert.True(t, RentalStatusCompleted.IsTerminal())
	assert.True(t, RentalStatusCancelled.IsTerminal())
	assert.False(t, RentalStatusReserved.IsTerminal())
	assert.True(t, RentalStatusReserved.Blocks())
	assert.True(t, RentalStatusActive.Blocks())
	assert.False(t, RentalStatusCancelled.Blocks())
	assert.False(t, RentalStatusCompleted.Blocks())

	_, ok := ParseRentalStatus("overdue")
	assert.False(t, ok)
	st, ok := ParseRentalStatus("active")
	assert.True(t, ok)
	assert.Equal(t, RentalStatusActive, st)
}

func TestRentalApplication_IsOverdue(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	app := &RentalApplication{
		Status:  RentalStatusActive,
		EndDate: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	t.Run("Last rental day is not overdue", func(t *testing.T) {
		now := time.Date(2024, 3, 10, 23, 59, 0, 0, loc)
		assert.False(t, app.IsOverdue(now, loc))
		assert.Equal(t, RentalStatusActive, app.DisplayStatus(now, loc))
	})

	t.Run("Overdue from midnight after the end date", func(t *testing.T) {
		now := time.Date(2024, 3, 11, 0, 0, 0, 0, loc)
		assert.True(t, app.IsOverdue(now, loc))
		assert.Equal(t, RentalStatusOverdue, app.DisplayStatus(now, loc))
		assert.Equal(t, RentalStatusActive, app.Status)
	})

	t.Run("Evaluated in the business zone", func(t *testing.T) {
		// 21:30 UTC on the 10th is 00:30 on the 11th in Moscow
		now := time.Date(2024, 3, 10, 21, 30, 0, 0, time.UTC)
		assert.True(t, app.IsOverdue(now, loc))
	})

	t.Run("Only active applications are overdue", func(t *testing.T) {
		reserved := *app
		reserved.Status = RentalStatusReserved
		assert.False(t, reserved.IsOverdue(time.Date(2025, 1, 1, 0, 0, 0, 0, loc), loc))
	})
}

func TestRentalApplication_Activate(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	app := &RentalApplication{Status: RentalStatusReserved}

	app.Activate(now, 5000)
	require.NotNil(t, app.OriginalTotalCost)
	assert.Equal(t, int64(5000), *app.OriginalTotalCost)
	assert.Equal(t, RentalStatusActive, app.Status)
	assert.Equal(t, now, *app.ActivatedAt)

	// A second activation keeps the first snapshot
	app.Activate(now.Add(time.Hour), 9000)
	assert.Equal(t, int64(5000), *app.OriginalTotalCost)
	assert.Equal(t, now.Add(time.Hour), *app.ActivatedAt)
}

func TestClient_SyncFromApplication(t *testing.T) {
	issued := time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)
	client := &Client{FullName: "Иванов Иван", PhoneNumber: "+79161234567", PassportNumber: "4510 123456"}

	t.Run("Empty application values never clear the client", func(t *testing.T) {
		changed := client.SyncFromApplication(&RentalApplication{})
		assert.False(t, changed)
		assert.Equal(t, "Иванов Иван", client.FullName)
		assert.Equal(t, "4510 123456", client.PassportNumber)
	})

	t.Run("Differing values overwrite the client", func(t *testing.T) {
		changed := client.SyncFromApplication(&RentalApplication{
			FullName:          "Иванов Иван Петрович",
			PassportIssuedBy:  "ОВД Тверской",
			PassportIssueDate: &issued,
			HowDidYouFindUs:   DiscoveryFriends,
		})
		assert.True(t, changed)
		assert.Equal(t, "Иванов Иван Петрович", client.FullName)
		assert.Equal(t, "4510 123456", client.PassportNumber)
		assert.Equal(t, "ОВД Тверской", client.PassportIssuedBy)
		assert.Equal(t, issued, *client.PassportIssueDate)
		assert.Equal(t, DiscoveryFriends, client.HowDidYouFindUs)
	})

	t.Run("Equal values are not a change", func(t *testing.T) {
		same := issued
		assert.False(t, client.SyncFromApplication(&RentalApplication{FullName: "Иванов Иван Петрович", PassportIssueDate: &same}))
	})
}

func TestProjectCalendarEntry(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	transportID := int32(7)
	app := &RentalApplication{
		ID:          42,
		TransportID: &transportID,
		FullName:    "Петров Пётр",
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:      RentalStatusReserved,
	}

	entry := ProjectCalendarEntry(app, loc)
	assert.Equal(t, int32(42), entry.RentalApplicationID)
	assert.Equal(t, int32(7), *entry.TransportID)
	assert.Equal(t, "Аренда: Петров Пётр", entry.Title)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, loc), entry.Start)
	assert.Equal(t, time.Date(2024, 1, 10, 23, 59, 59, 0, loc), entry.End)
	assert.True(t, entry.AllDay)
	assert.Equal(t, RentalStatusReserved, entry.Status)

	// The projection does not alias the application's pointer
	*app.TransportID = 8
	assert.Equal(t, int32(7), *entry.TransportID)
}

func TestTransportUnavailableError_Window(t *testing.T) {
	err := &TransportUnavailableError{
		TransportID:   3,
		ConflictingID: 9,
		Start:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, "01.01.2024 - 10.01.2024", err.Window())
	assert.Contains(t, err.Error(), "01.01.2024 - 10.01.2024")
	assert.Contains(t, (&TransportUnavailableError{TransportID: 3}).Error(), "requested dates")
}

func TestActor_Roles(t *testing.T) {
	assert.True(t, Actor{Roles: []string{RoleSuperuser}}.IsPrivileged())
	assert.False(t, Actor{Roles: []string{RoleManager}}.IsPrivileged())
	assert.True(t, Actor{Roles: []string{RoleManager}}.IsStaff())
	assert.False(t, Actor{}.IsStaff())
}
