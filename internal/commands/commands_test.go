package commands_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/roster/internal/contacts"
	"github.com/cleared-dev/roster/internal/importlog"
	"github.com/cleared-dev/roster/internal/store"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func copyTestdata(t *testing.T, name, dst string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}

func TestImport_File(t *testing.T) {
	dir := initProject(t)
	src := filepath.Join(t.TempDir(), "members.csv")
	copyTestdata(t, "contacts.csv", src)

	out, err := runRoster(t, "import", src, "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "members.csv: imported 3, failed 2")
	assert.Contains(t, out, "line 6: first name: required field missing")
	assert.Contains(t, out, "line 7: email: invalid email address")

	// A single file is not moved.
	_, err = os.Stat(src)
	assert.NoError(t, err)

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "members.csv", entries[0].Source)
	assert.Equal(t, 3, entries[0].Imported)
	assert.Equal(t, 2, entries[0].Failed)
}

func TestImport_Directory(t *testing.T) {
	dir := initProject(t)
	copyTestdata(t, "contacts.csv", filepath.Join(dir, "import", "members.csv"))
	copyTestdata(t, "contacts.vcf", filepath.Join(dir, "import", "phone.vcf"))

	out, err := runRoster(t, "import", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "members.csv: imported 3, failed 2")
	assert.Contains(t, out, "phone.vcf: imported 2, failed 0")

	for _, name := range []string{"members.csv", "phone.vcf"} {
		_, err := os.Stat(filepath.Join(dir, "import", "processed", name))
		assert.NoError(t, err, "%s should be in processed/", name)
		_, err = os.Stat(filepath.Join(dir, "import", name))
		assert.True(t, os.IsNotExist(err), "%s should have left import/", name)
	}

	entries, err := importlog.Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entries[0].RunID, entries[1].RunID, "one run ID per invocation")

	db, err := store.Open(filepath.Join(dir, "roster.db"))
	require.NoError(t, err)
	defer db.Close()
	list, err := db.ListContacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 5)
}

func TestImport_EmptyDirectory(t *testing.T) {
	dir := initProject(t)
	out, err := runRoster(t, "import", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "No files to import")
}

func TestImport_MissingFile(t *testing.T) {
	dir := initProject(t)
	out, err := runRoster(t, "import", filepath.Join(dir, "nope.csv"), "--project", dir)
	require.Error(t, err)
	assert.Contains(t, out, "file access failed")
}

func TestImport_UnknownFormat(t *testing.T) {
	dir := initProject(t)
	src := filepath.Join(t.TempDir(), "members.txt")
	copyTestdata(t, "contacts.csv", src)

	out, err := runRoster(t, "import", src, "--project", dir)
	require.Error(t, err)
	assert.Contains(t, out, "use --format")

	out, err = runRoster(t, "import", src, "--format", "csv", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "imported 3")
}

func importSample(t *testing.T) string {
	t.Helper()
	dir := initProject(t)
	src := filepath.Join(t.TempDir(), "members.csv")
	copyTestdata(t, "contacts.csv", src)
	out, err := runRoster(t, "import", src, "--project", dir)
	require.NoError(t, err, out)
	return dir
}

func TestExport_CSV(t *testing.T) {
	dir := importSample(t)
	dst := filepath.Join(t.TempDir(), "out.csv")

	out, err := runRoster(t, "export", dst, "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Exported 3 contacts")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, contacts.Header, lines[0])
	// Ordered by last name: Doe, Horvat, Kovač.
	assert.True(t, strings.HasPrefix(lines[1], `"John","Doe"`))
	assert.True(t, strings.HasPrefix(lines[3], `"Iva","Kovač"`))
}

func TestExport_MembersOnlyVCard(t *testing.T) {
	dir := importSample(t)
	dst := filepath.Join(t.TempDir(), "members.vcf")

	out, err := runRoster(t, "export", dst, "--members-only", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Exported 1 contacts")

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	card, err := vcard.NewDecoder(f).Decode()
	require.NoError(t, err)
	assert.Equal(t, "John Doe", card.PreferredValue(vcard.FieldFormattedName))
}

func TestExport_DefaultPath(t *testing.T) {
	dir := importSample(t)

	out, err := runRoster(t, "export", "--format", "ical", "--search", "ana", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Exported 1 contacts")

	matches, err := filepath.Glob(filepath.Join(dir, "exports", "contacts-*.ics"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "SUMMARY:Ana Horvat birthday")
}

func TestExport_UnknownFormat(t *testing.T) {
	dir := initProject(t)
	out, err := runRoster(t, "export", filepath.Join(t.TempDir(), "x.out"), "--format", "pdf", "--project", dir)
	require.Error(t, err)
	assert.Contains(t, out, `unknown export format "pdf"`)
}

func TestContacts_ListAndDelete(t *testing.T) {
	dir := importSample(t)

	out, err := runRoster(t, "contacts", "list", "--search", "zagreb", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "John Doe")
	assert.NotContains(t, out, "Ana Horvat")
	assert.Contains(t, out, "1 contacts")

	db, err := store.Open(filepath.Join(dir, "roster.db"))
	require.NoError(t, err)
	list, err := db.ListContacts(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.Close())
	require.Len(t, list, 3)

	out, err = runRoster(t, "contacts", "delete", list[0].ID, "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Deleted contact "+list[0].ID)

	out, err = runRoster(t, "contacts", "list", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "2 contacts")
	assert.NotContains(t, out, "John Doe")

	out, err = runRoster(t, "contacts", "delete", list[0].ID, "--project", dir)
	require.Error(t, err)
	assert.Contains(t, out, "not found")
}

func TestContacts_ActiveOn(t *testing.T) {
	dir := importSample(t)

	out, err := runRoster(t, "contacts", "list", "--active-on", "01.06.2024", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "John Doe")
	assert.Contains(t, out, "1 contacts")

	out, err = runRoster(t, "contacts", "list", "--active-on", "01.06.2025", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "0 contacts")

	_, err = runRoster(t, "contacts", "list", "--active-on", "someday", "--project", dir)
	assert.Error(t, err)
}

func TestTemplate(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "template.csv")
	out, err := runRoster(t, "template", dst)
	require.NoError(t, err, out)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# Contacts import template"))
	assert.Contains(t, string(data), "\n"+contacts.Header+"\n")
}

func TestAmount(t *testing.T) {
	out, err := runRoster(t, "amount", "1", "12", "123", "1234")
	require.NoError(t, err, out)
	assert.Equal(t, "1 -> 0,01\n12 -> 0,12\n123 -> 1,23\n1234 -> 12,34\ncanonical: 12.34\n", out)
}

func TestAmount_Empty(t *testing.T) {
	out, err := runRoster(t, "amount", "abc")
	require.NoError(t, err, out)
	assert.Equal(t, "abc -> \ncanonical: \"\" (not a positive amount)\n", out)
}

func TestPayments(t *testing.T) {
	dir := initProject(t)

	out, err := runRoster(t, "payments", "add", "--name", "Membership fee", "--amount", "25,50", "--description", "Yearly", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Added payment template Membership fee (25,50 EUR)")

	out, err = runRoster(t, "payments", "add", "--name", "Broken", "--amount", "0,00", "--project", dir)
	require.Error(t, err)
	assert.Contains(t, out, "amount must be a positive number")

	out, err = runRoster(t, "payments", "list", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Membership fee")
	assert.Contains(t, out, "25,50")
	assert.NotContains(t, out, "Broken")
}

func TestContacts_Membership(t *testing.T) {
	dir := importSample(t)

	db, err := store.Open(filepath.Join(dir, "roster.db"))
	require.NoError(t, err)
	list, err := db.ListContacts(context.Background())
	require.NoError(t, err)
	require.NoError(t, db.Close())
	var anaID string
	for _, c := range list {
		if c.FirstName == "Ana" {
			anaID = c.ID
		}
	}
	require.NotEmpty(t, anaID)

	out, err := runRoster(t, "contacts", "membership", anaID, "--since", "01.01.2025", "--until", "2025-12-31", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, `Ana Horvat is a member (since "01.01.2025", until "31.12.2025")`)

	out, err = runRoster(t, "contacts", "list", "--active-on", "01.06.2025", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Ana Horvat")
	assert.Contains(t, out, "1 contacts")

	out, err = runRoster(t, "contacts", "membership", anaID, "--end", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Ana Horvat is no longer a member")

	out, err = runRoster(t, "contacts", "membership", anaID, "--since", "31.12.2025", "--until", "01.01.2025", "--project", dir)
	require.Error(t, err)
	assert.Contains(t, out, "is before")

	out, err = runRoster(t, "contacts", "membership", "missing-id", "--project", dir)
	require.Error(t, err)
	assert.Contains(t, out, "not found")
}

func TestExport_XLSXImportsIntoAnotherProject(t *testing.T) {
	dir := importSample(t)
	dst := filepath.Join(t.TempDir(), "contacts.xlsx")

	out, err := runRoster(t, "export", dst, "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Exported 3 contacts")

	other := initProject(t)
	out, err = runRoster(t, "import", dst, "--project", other)
	require.NoError(t, err, out)
	assert.Contains(t, out, "contacts.xlsx: imported 3, failed 0")
}

func TestImport_CommitsWithGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	out, err := runRoster(t, "init", dir, "--name", "Chess Club", "--git")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Initialized roster project at")

	copyTestdata(t, "contacts.csv", filepath.Join(dir, "import", "members.csv"))
	out, err = runRoster(t, "import", "--project", dir)
	require.NoError(t, err, out)

	cmd := exec.Command("git", "log", "--format=%s", "-2")
	cmd.Dir = dir
	log, err := cmd.Output()
	require.NoError(t, err)
	assert.Equal(t, "import: 3 contacts from members.csv\ninit: Initialize Chess Club\n", string(log))
}

func TestPayments_RejectsSubCentAmount(t *testing.T) {
	dir := initProject(t)

	out, err := runRoster(t, "payments", "add", "--name", "Tiny", "--amount", "0,001", "--project", dir)
	require.Error(t, err)
	assert.Contains(t, out, "amount must have at most two decimal places")

	out, err = runRoster(t, "payments", "list", "--project", dir)
	require.NoError(t, err, out)
	assert.NotContains(t, out, "Tiny")
}

func TestImportLog(t *testing.T) {
	dir := initProject(t)

	out, err := runRoster(t, "import-log", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "No imports recorded")

	copyTestdata(t, "contacts.csv", filepath.Join(dir, "import", "members.csv"))
	copyTestdata(t, "contacts.vcf", filepath.Join(dir, "import", "phone.vcf"))
	out, err = runRoster(t, "import", "--project", dir)
	require.NoError(t, err, out)

	out, err = runRoster(t, "import-log", "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "SOURCE")
	assert.Contains(t, out, "members.csv")
	assert.Contains(t, out, "phone.vcf")

	out, err = runRoster(t, "import-log", "--last", "1", "--project", dir)
	require.NoError(t, err, out)
	assert.NotContains(t, out, "members.csv")
	assert.Contains(t, out, "phone.vcf")
}

func TestImport_LogsRejectedLines(t *testing.T) {
	dir := initProject(t)
	src := filepath.Join(t.TempDir(), "members.csv")
	copyTestdata(t, "contacts.csv", src)

	out, err := runRoster(t, "import", src, "--project", dir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "level=WARN msg=\"record rejected\"")
	assert.Contains(t, out, "line=6")
}
