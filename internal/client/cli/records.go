package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/dmitrijs2005/gophjournal/internal/services"
)

// getMultiline is a test seam for GetMultiline.
var getMultiline = GetMultiline

func (a *App) inputEntry(withMood bool) (services.NewJournal, error) {
	var in services.NewJournal

	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return in, fmt.Errorf("get title: %w", err)
	}
	date, err := GetDate(a.reader, "Enter date", a.out)
	if err != nil {
		return in, fmt.Errorf("get date: %w", err)
	}
	in.Title, in.Date = title, date

	if withMood {
		if in.Mood, err = getSimpleText(a.reader, "Enter mood (optional)", a.out); err != nil {
			return in, err
		}
	}

	if in.Content, err = getMultiline(a.reader, "- Enter text (double Enter to finish):", a.out); err != nil {
		return in, err
	}
	return in, nil
}

func (a *App) addEntry(ctx context.Context, kind models.Kind) error {
	in, err := a.inputEntry(kind == models.KindJournal)
	if err != nil {
		return a.fail(ctx, "add "+string(kind), err)
	}
	e, err := a.records.AddEntry(ctx, a.userID, kind, in)
	if err != nil {
		return a.fail(ctx, "add "+string(kind), err)
	}
	fmt.Fprintf(a.out, "Added %s %s\n", kind, e.ID)
	return nil
}

// AddJournal collects a journal entry and stores it encrypted.
func (a *App) AddJournal(ctx context.Context) error {
	return a.addEntry(ctx, models.KindJournal)
}

// AddDiary collects a diary entry and stores it encrypted.
func (a *App) AddDiary(ctx context.Context) error {
	return a.addEntry(ctx, models.KindDiary)
}

// AddBucket collects a bucket list header and stores it encrypted.
func (a *App) AddBucket(ctx context.Context) error {
	var in services.NewBucket
	var err error

	prompts := []struct {
		text string
		dst  *string
	}{
		{"Enter bucket name", &in.Name},
		{"Enter description (optional)", &in.Description},
		{"Enter icon (optional)", &in.Icon},
		{"Enter color (optional)", &in.Color},
	}
	for _, p := range prompts {
		if *p.dst, err = getSimpleText(a.reader, p.text, a.out); err != nil {
			return a.fail(ctx, "add bucket", err)
		}
	}
	if in.Pinned, err = GetYesNo(a.reader, "Pin it?", false, a.out); err != nil {
		return a.fail(ctx, "add bucket", err)
	}

	b, err := a.records.AddBucket(ctx, a.userID, in)
	if err != nil {
		return a.fail(ctx, "add bucket", err)
	}
	fmt.Fprintf(a.out, "Added bucket %s\n", b.ID)
	return nil
}

// AddItem appends an item to bucketID, prompting for the bucket when it is
// empty.
func (a *App) AddItem(ctx context.Context, bucketID string) error {
	var err error
	if bucketID == "" {
		if bucketID, err = getSimpleText(a.reader, "Enter bucket id", a.out); err != nil {
			return a.fail(ctx, "add item", err)
		}
	}
	content, err := getSimpleText(a.reader, "Enter item", a.out)
	if err != nil {
		return a.fail(ctx, "add item", err)
	}
	pinned, err := GetYesNo(a.reader, "Pin it?", false, a.out)
	if err != nil {
		return a.fail(ctx, "add item", err)
	}

	it, err := a.records.AddItem(ctx, a.userID, bucketID, content, pinned)
	if err != nil {
		return a.fail(ctx, "add item", err)
	}
	fmt.Fprintf(a.out, "Added item %s\n", it.ID)
	return nil
}

// List prints the user's records. what narrows the output to journals,
// diaries or buckets; empty lists everything.
func (a *App) List(ctx context.Context, what string) error {
	what = strings.ToLower(what)
	show := func(name string) bool { return what == "" || what == name }

	if what != "" && !show("journals") && !show("diaries") && !show("buckets") {
		fmt.Fprintln(a.out, "Usage: list [journals|diaries|buckets]")
		return nil
	}

	for _, k := range []struct {
		name string
		kind models.Kind
	}{{"journals", models.KindJournal}, {"diaries", models.KindDiary}} {
		if !show(k.name) {
			continue
		}
		entries, err := a.records.ListEntries(ctx, a.userID, k.kind)
		if err != nil {
			return a.fail(ctx, "list "+k.name, err)
		}
		fmt.Fprintf(a.out, "%s (%d):\n", k.name, len(entries))
		for _, e := range entries {
			fmt.Fprintf(a.out, "  %s  %s  %s", e.ID, models.Day(e.Date), e.Title)
			if e.Mood != "" {
				fmt.Fprintf(a.out, "  [%s]", e.Mood)
			}
			if e.Kind == models.KindDiary {
				fmt.Fprintf(a.out, "  (%d words)", e.WordCount)
			}
			fmt.Fprintln(a.out)
		}
	}

	if show("buckets") {
		buckets, err := a.records.ListBuckets(ctx, a.userID)
		if err != nil {
			return a.fail(ctx, "list buckets", err)
		}
		fmt.Fprintf(a.out, "buckets (%d):\n", len(buckets))
		for _, b := range buckets {
			fmt.Fprintf(a.out, "  %s  %s%s %s\n", b.ID, pinMark(b.Pinned), b.Icon, b.Name)
			for _, it := range b.Items {
				fmt.Fprintf(a.out, "      %s%s\n", pinMark(it.Pinned), it.Content)
			}
		}
	}
	return nil
}

func pinMark(p bool) string {
	if p {
		return "* "
	}
	return ""
}

func (a *App) Pin(ctx context.Context, bucketID string, pinned bool) error {
	if err := a.records.SetBucketPinned(ctx, a.userID, bucketID, pinned); err != nil {
		return a.fail(ctx, "pin bucket", err)
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}

func (a *App) DeleteBucket(ctx context.Context, bucketID string) error {
	if err := a.records.DeleteBucket(ctx, a.userID, bucketID); err != nil {
		return a.fail(ctx, "delete bucket", err)
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

func (a *App) DeleteEntry(ctx context.Context, entryID string) error {
	if err := a.records.DeleteEntry(ctx, a.userID, entryID); err != nil {
		return a.fail(ctx, "delete entry", err)
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}
