package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResource_IsValid(t *testing.T) {
	for _, r := range Resources {
		assert.True(t, r.IsValid(), r)
	}
	assert.False(t, Resource("teams").IsValid())
	assert.False(t, Resource("").IsValid())
}

func TestEvent_IsValid(t *testing.T) {
	for _, e := range Events {
		assert.True(t, e.IsValid(), e)
	}
	assert.False(t, Event("all").IsValid())
}

func TestDeliveryStatus(t *testing.T) {
	tests := []struct {
		status DeliveryStatus
		valid  bool
		final  bool
	}{
		{DeliveryStatusReceived, true, false},
		{DeliveryStatusProcessed, true, true},
		{DeliveryStatusFailed, true, true},
		{DeliveryStatus("skipped"), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
			assert.Equal(t, tt.final, tt.status.IsFinal())
		})
	}
}

func TestWebhookSubscription_IsRegisteredRemotely(t *testing.T) {
	empty := ""
	ext := "Y2lzY29zcGFyazovL3VzL1dFQkhPT0sv"

	assert.False(t, (&WebhookSubscription{}).IsRegisteredRemotely())
	assert.False(t, (&WebhookSubscription{WebhookID: &empty}).IsRegisteredRemotely())
	assert.True(t, (&WebhookSubscription{WebhookID: &ext}).IsRegisteredRemotely())
}

func TestWebhookSubscription_HidesSecrets(t *testing.T) {
	secret := "shh"
	raw, err := json.Marshal(WebhookSubscription{Name: "support", AccessTokenEnc: "enc", Secret: &secret})
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "enc")
	assert.NotContains(t, string(raw), "shh")
	assert.Contains(t, string(raw), `"targetUrl"`)
}

func TestParseDelivery(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"id":"1","resource":"rooms","event":"created","data":{"id":"R1"}}`, false},
		{"unknown resource still parses", `{"id":"1","resource":"teams","event":"created","data":{}}`, false},
		{"not json", `resource=rooms`, true},
		{"missing resource", `{"event":"created","data":{}}`, true},
		{"missing event", `{"resource":"rooms","data":{}}`, true},
		{"missing data", `{"resource":"rooms","event":"created"}`, true},
		{"null data", `{"resource":"rooms","event":"created","data":null}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDelivery([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, d.Resource)
		})
	}
}

func TestDecodeEventData(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		data, err := DecodeEventData(ResourceMessages, json.RawMessage(`{"id":"M1","roomId":"R1","personId":"P1","text":"help","created":"2024-01-01T10:00:00.000Z"}`))
		require.NoError(t, err)
		msg, ok := data.(MessageData)
		require.True(t, ok)
		assert.Equal(t, "M1", msg.ID)
		assert.Equal(t, "help", msg.Text)
		assert.Equal(t, 2024, msg.Created.Year())
	})

	t.Run("membership defaults moderator to absent", func(t *testing.T) {
		data, err := DecodeEventData(ResourceMemberships, json.RawMessage(`{"id":"MB1","roomId":"R1","personId":"P1","personEmail":"a@b.c"}`))
		require.NoError(t, err)
		assert.Nil(t, data.(MembershipData).IsModerator)
	})

	t.Run("room", func(t *testing.T) {
		data, err := DecodeEventData(ResourceRooms, json.RawMessage(`{"id":"R1","title":"Support","type":"group"}`))
		require.NoError(t, err)
		assert.Equal(t, "Support", data.(RoomData).Title)
	})

	t.Run("attachment action keeps inputs raw", func(t *testing.T) {
		data, err := DecodeEventData(ResourceAttachmentActions, json.RawMessage(`{"id":"A1","type":"submit","inputs":{"rating":"5"}}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"rating":"5"}`, string(data.(AttachmentActionData).Inputs))
	})

	t.Run("other resource is unknown", func(t *testing.T) {
		data, err := DecodeEventData(ResourceMeetings, json.RawMessage(`{"id":"X"}`))
		require.NoError(t, err)
		_, ok := data.(UnknownData)
		assert.True(t, ok)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := DecodeEventData(ResourceRooms, json.RawMessage(`{"title":"x"}`))
		assert.Error(t, err)
	})

	t.Run("wrong shape", func(t *testing.T) {
		_, err := DecodeEventData(ResourceMessages, json.RawMessage(`"just a string"`))
		assert.Error(t, err)
	})
}

func TestMergePayload(t *testing.T) {
	payload := json.RawMessage(`{"id":"1","resource":"rooms"}`)

	merged, err := MergePayload(payload, PayloadKeyResult, ProcessingResult{Action: ActionRoomCreated, RoomID: "R1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","resource":"rooms","processingResult":{"action":"room_created","roomId":"R1"}}`, string(merged))

	merged, err = MergePayload(payload, PayloadKeyError, "boom")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","resource":"rooms","error":"boom"}`, string(merged))

	unchanged, err := MergePayload(payload, PayloadKeyResult, nil)
	require.NoError(t, err)
	assert.Equal(t, payload, unchanged)

	wrapped, err := MergePayload(json.RawMessage(`[1,2]`), PayloadKeyError, "x")
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw":[1,2],"error":"x"}`, string(wrapped))
}

func TestRole(t *testing.T) {
	assert.True(t, RoleAgent.IsValid())
	assert.True(t, RoleSupervisor.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("root").IsValid())

	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleSupervisor}).IsAdmin())
}

func TestNavigation(t *testing.T) {
	names := func(items []NavItem) []string {
		out := make([]string, 0, len(items))
		for _, i := range items {
			out = append(out, i.Name)
		}
		return out
	}

	assert.Equal(t, []string{"Home", "Users", "Webhooks", "Logs"}, names(Navigation(RoleAdmin)))
	assert.Equal(t, []string{"Home", "Coaching"}, names(Navigation(RoleSupervisor)))
	assert.Equal(t, []string{"Home"}, names(Navigation(RoleAgent)))
}

func TestUser_HidesPasswordHash(t *testing.T) {
	raw, err := json.Marshal(User{Email: "a@b.c", PasswordHash: "$2a$10$abc"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "$2a$10$abc")
}
