package model

import (
	"context"
	"errors"
	"testing"
)

// TestMessage_Roles verifies the role constants match provider conventions.
func TestMessage_Roles(t *testing.T) {
	tests := []struct {
		name string
		role string
		want string
	}{
		{"system role", RoleSystem, "system"},
		{"user role", RoleUser, "user"},
		{"assistant role", RoleAssistant, "assistant"},
		{"tool role", RoleTool, "tool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.role != tt.want {
				t.Errorf("expected role %q, got %q", tt.want, tt.role)
			}
		})
	}
}

// TestMockChatModel_Responses verifies response sequencing.
func TestMockChatModel_Responses(t *testing.T) {
	t.Run("returns responses in order", func(t *testing.T) {
		mock := &MockChatModel{
			Responses: []ChatOut{
				{Text: "first"},
				{Text: "second"},
			},
		}

		out, err := mock.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Text != "first" {
			t.Errorf("expected 'first', got %q", out.Text)
		}

		out, _ = mock.Chat(context.Background(), nil, nil)
		if out.Text != "second" {
			t.Errorf("expected 'second', got %q", out.Text)
		}
	})

	t.Run("repeats last response when exhausted", func(t *testing.T) {
		mock := &MockChatModel{
			Responses: []ChatOut{{Text: "only"}},
		}

		for i := 0; i < 3; i++ {
			out, err := mock.Chat(context.Background(), nil, nil)
			if err != nil {
				t.Fatalf("call %d: expected no error, got %v", i, err)
			}
			if out.Text != "only" {
				t.Errorf("call %d: expected 'only', got %q", i, out.Text)
			}
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		wantErr := errors.New("API unavailable")
		mock := &MockChatModel{Err: wantErr}

		_, err := mock.Chat(context.Background(), nil, nil)
		if !errors.Is(err, wantErr) {
			t.Errorf("expected configured error, got %v", err)
		}
	})

	t.Run("returns empty output with no responses", func(t *testing.T) {
		mock := &MockChatModel{}

		out, err := mock.Chat(context.Background(), nil, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if out.Text != "" || len(out.ToolCalls) != 0 {
			t.Errorf("expected empty output, got %+v", out)
		}
	})
}

// TestMockChatModel_CallTracking verifies call history recording.
func TestMockChatModel_CallTracking(t *testing.T) {
	t.Run("records messages and tools", func(t *testing.T) {
		mock := &MockChatModel{Responses: []ChatOut{{Text: "ok"}}}

		messages := []Message{{Role: RoleUser, Content: "question"}}
		tools := []ToolSpec{{Name: "search_faq", Description: "Search the FAQ"}}

		if _, err := mock.Chat(context.Background(), messages, tools); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if mock.CallCount() != 1 {
			t.Fatalf("expected 1 call, got %d", mock.CallCount())
		}

		last := mock.LastCall()
		if last == nil {
			t.Fatal("expected recorded call")
		}
		if len(last.Messages) != 1 || last.Messages[0].Content != "question" {
			t.Errorf("unexpected recorded messages: %+v", last.Messages)
		}
		if len(last.Tools) != 1 || last.Tools[0].Name != "search_faq" {
			t.Errorf("unexpected recorded tools: %+v", last.Tools)
		}
	})

	t.Run("reset clears history", func(t *testing.T) {
		mock := &MockChatModel{Responses: []ChatOut{{Text: "a"}, {Text: "b"}}}

		if _, err := mock.Chat(context.Background(), nil, nil); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		mock.Reset()

		if mock.CallCount() != 0 {
			t.Errorf("expected 0 calls after reset, got %d", mock.CallCount())
		}

		out, _ := mock.Chat(context.Background(), nil, nil)
		if out.Text != "a" {
			t.Errorf("expected response index reset, got %q", out.Text)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		mock := &MockChatModel{Responses: []ChatOut{{Text: "never"}}}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := mock.Chat(ctx, nil, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if mock.CallCount() != 0 {
			t.Errorf("cancelled call should not be recorded, got %d", mock.CallCount())
		}
	})
}
