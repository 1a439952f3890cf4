package testutil

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"sync"
	"testing"

	"github.com/anish/devshowcase/internal/storage"
	"github.com/google/uuid"
)

// Mail is a captured outbound message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// FakeMailer records sent mail instead of delivering it.
type FakeMailer struct {
	mu   sync.Mutex
	Sent []Mail
}

func NewFakeMailer() *FakeMailer {
	return &FakeMailer{}
}

func (m *FakeMailer) Send(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, Mail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *FakeMailer) Last(t *testing.T) Mail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		t.Fatal("no mail was sent")
	}
	return m.Sent[len(m.Sent)-1]
}

var otpPattern = regexp.MustCompile(`\b(\d{6})\b`)

// LastOTP extracts the 6-digit code from the most recent mail.
func (m *FakeMailer) LastOTP(t *testing.T) string {
	t.Helper()
	mail := m.Last(t)
	match := otpPattern.FindStringSubmatch(mail.Body)
	if match == nil {
		t.Fatalf("no OTP found in mail body: %q", mail.Body)
	}
	return match[1]
}

// MemoryUploader keeps uploaded objects in a map and returns mem:// URLs.
type MemoryUploader struct {
	mu      sync.Mutex
	Objects map[string][]byte
}

func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{Objects: make(map[string][]byte)}
}

func (u *MemoryUploader) Upload(ctx context.Context, prefix string, file storage.File) (string, error) {
	data, err := io.ReadAll(file.Reader)
	if err != nil {
		return "", err
	}

	key := path.Join(prefix, uuid.NewString()+"-"+file.Name)
	u.mu.Lock()
	u.Objects[key] = data
	u.mu.Unlock()

	return fmt.Sprintf("mem://%s", key), nil
}
