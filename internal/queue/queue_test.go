package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatLine(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want []string
	}{
		{
			name: "registration",
			ev:   RegistrationAdvanced{UserID: "u1", Transition: "add-bank-details", From: 1, To: 2, OccurredAt: "2025-01-02T03:04:05Z"},
			want: []string{"[2025-01-02T03:04:05Z] Registration advanced", "user_id=u1", "from=1", "to=2"},
		},
		{
			name: "application",
			ev:   TaskApplicationCreated{ApplicationID: "a1", TaskID: "t1", UserID: "u1", Status: "pending"},
			want: []string{"Task application created", "application_id=a1", "task_id=t1", "status=pending"},
		},
		{
			name: "payment without transaction",
			ev:   PaymentCreated{PaymentID: "p1", TaskApplicationID: "a1", Amount: 12.5, PaymentStatus: "pending"},
			want: []string{"Payment created", "amount=12.50", "transaction_id=-"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.ev)
			require.NoError(t, err)
			line, err := FormatLine(tt.ev.EventType(), body)
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(line, "\n"))
			assert.Equal(t, 1, strings.Count(line, "\n"))
			for _, w := range tt.want {
				assert.Contains(t, line, w)
			}
		})
	}
}

func TestFormatLineRejectsUnknownAndMalformed(t *testing.T) {
	_, err := FormatLine("booking.confirmed", []byte(`{}`))
	assert.Error(t, err)
	_, err = FormatLine(TypePaymentCreated, []byte(`{`))
	assert.Error(t, err)
}

func TestHandleMessageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.log")
	body, err := json.Marshal(TaskApplicationCreated{ApplicationID: "a1"})
	require.NoError(t, err)

	require.NoError(t, HandleMessage(TypeTaskApplicationCreated, body, path))
	require.NoError(t, HandleMessage(TypeTaskApplicationCreated, body, path))
	assert.Error(t, HandleMessage("unknown", body, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "application_id=a1"))
}
