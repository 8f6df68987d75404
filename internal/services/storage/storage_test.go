package storage

import (
	"os"
	"path/filepath"
	"testing"

	"filippo.io/age"
)

// writeEncryptedDir builds a data directory fixture in the on-disk layout the
// encryption tooling produces: marker file, verify file, and encrypted payloads.
func writeEncryptedDir(t *testing.T, dir, passphrase string, files map[string][]byte) {
	t.Helper()

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		t.Fatalf("Failed to create recipient: %v", err)
	}
	// Low work factor to keep tests fast
	recipient.SetWorkFactor(10)

	if err := os.WriteFile(filepath.Join(dir, markerFile), []byte("1"), 0644); err != nil {
		t.Fatalf("Failed to write marker: %v", err)
	}

	verify, err := encryptData([]byte(verifyMagic), recipient)
	if err != nil {
		t.Fatalf("Failed to encrypt verify file: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, verifyFile), verify, 0644); err != nil {
		t.Fatalf("Failed to write verify file: %v", err)
	}

	for name, content := range files {
		encrypted, err := encryptData(content, recipient)
		if err != nil {
			t.Fatalf("Failed to encrypt %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), encrypted, 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
}

func TestReadPlainFile(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if store.IsEncrypted() {
		t.Error("Expected IsEncrypted() to return false for plain directory")
	}
	if !store.IsUnlocked() {
		t.Error("Plain directory should always be unlocked")
	}

	testFile := filepath.Join(dir, "orders.csv")
	original := []byte("customer_unique_id,payment_value\nc1,100.00\n")
	if err := os.WriteFile(testFile, original, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	read, err := store.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(read) != string(original) {
		t.Errorf("Content mismatch: got %q, want %q", string(read), string(original))
	}
}

func TestReadEncryptedFile(t *testing.T) {
	dir := t.TempDir()
	passphrase := "testpassphrase123"
	original := []byte("customer_unique_id,segment\nc1,Loyal Customers\n")

	writeEncryptedDir(t, dir, passphrase, map[string][]byte{
		"customer-segmentation.csv": original,
	})

	store, err := New(dir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if !store.IsEncrypted() {
		t.Error("Expected IsEncrypted() to return true")
	}
	if store.IsUnlocked() {
		t.Error("Encrypted directory should start locked")
	}

	dataFile := filepath.Join(dir, "customer-segmentation.csv")

	// Locked reads of encrypted content must fail
	if _, err := store.ReadFile(dataFile); err == nil {
		t.Error("Expected error reading encrypted file while locked")
	}

	if err := store.Unlock(passphrase); err != nil {
		t.Fatalf("Failed to unlock: %v", err)
	}
	if !store.IsUnlocked() {
		t.Error("Expected IsUnlocked() after Unlock")
	}

	read, err := store.ReadFile(dataFile)
	if err != nil {
		t.Fatalf("Failed to read encrypted file: %v", err)
	}
	if string(read) != string(original) {
		t.Errorf("Content mismatch: got %q, want %q", string(read), string(original))
	}

	// Lock clears the key again
	store.Lock()
	if _, err := store.ReadFile(dataFile); err == nil {
		t.Error("Expected error reading encrypted file after Lock")
	}
}

func TestWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	writeEncryptedDir(t, dir, "correctpassphrase", map[string][]byte{
		"orders.csv": []byte("customer_unique_id\nc1\n"),
	})

	store, _ := New(dir)

	if err := store.Unlock("wrongpassphrase"); err == nil {
		t.Error("Expected error with wrong passphrase")
	}
	if store.IsUnlocked() {
		t.Error("Storage should remain locked after failed unlock")
	}
}

func TestOpenFileReader(t *testing.T) {
	dir := t.TempDir()
	store, _ := New(dir)

	testFile := filepath.Join(dir, "clv.csv")
	content := []byte("customer_unique_id,clv\nc1,42.5\n")
	if err := os.WriteFile(testFile, content, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	r, err := store.OpenFile(testFile)
	if err != nil {
		t.Fatalf("Failed to open file: %v", err)
	}
	defer r.Close()

	buf := make([]byte, len(content))
	n, _ := r.Read(buf)
	if string(buf[:n]) != string(content) {
		t.Errorf("Reader content mismatch")
	}
}
