package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/LibrelandCommunity/libreland-server/internal/metrics"
	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"github.com/LibrelandCommunity/libreland-server/internal/types"
	"github.com/LibrelandCommunity/libreland-server/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Archive record families, in import order
const (
	FamilyAreaInfo       = "area/info"
	FamilyAreaLoad       = "area/load"
	FamilyAreaSubareas   = "area/subareas"
	FamilyPersonInfo     = "person/info"
	FamilyPersonAreas    = "person/areasearch"
	FamilyPersonTopBy    = "person/topby"
	FamilyPersonGifts    = "person/gift"
	FamilyThingDef       = "thing/def"
	FamilyThingInfo      = "thing/info"
	FamilyThingTags      = "thing/tags"
	FamilyPlacementInfo  = "placement/info"
	FamilyForumForum     = "forum/forum"
	FamilyForumThread    = "forum/thread"
	archiveRecordExtname = ".json"
)

// errSkipRecord marks an archive file that holds no record
var errSkipRecord = errors.New("no record")

// FamilyReport counts the outcome of one record family
type FamilyReport struct {
	Imported int `json:"imported"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
}

// ImportReport summarises one archive import
type ImportReport struct {
	Root     string                   `json:"root"`
	Families map[string]*FamilyReport `json:"families"`
	Duration time.Duration            `json:"duration"`
}

// Totals sums the per-family counts
func (r *ImportReport) Totals() FamilyReport {
	var t FamilyReport
	for _, f := range r.Families {
		t.Imported += f.Imported
		t.Failed += f.Failed
		t.Skipped += f.Skipped
	}
	return t
}

// archiveRecord is one file of the archive. ParentID is set for nested families.
type archiveRecord struct {
	ID       string
	ParentID string
	Path     string
	Raw      []byte
}

type importFamily struct {
	name   string
	nested bool
	load   func(db *gorm.DB, rec archiveRecord) error
}

var importFamilies = []importFamily{
	{name: FamilyAreaInfo, load: importAreaInfo},
	{name: FamilyAreaLoad, load: importAreaLoad},
	{name: FamilyAreaSubareas, load: importAreaSubareas},
	{name: FamilyPersonInfo, load: importPersonInfo},
	{name: FamilyPersonAreas, load: importPersonAreas},
	{name: FamilyPersonTopBy, load: importPersonTopBy},
	{name: FamilyPersonGifts, load: importPersonGifts},
	{name: FamilyThingDef, load: importThingDef},
	{name: FamilyThingInfo, load: importThingInfo},
	{name: FamilyThingTags, load: importThingTags},
	{name: FamilyPlacementInfo, nested: true, load: importPlacement},
	{name: FamilyForumForum, load: importForum},
	{name: FamilyForumThread, load: importThread},
}

// ImportArchive loads every record of the archive rooted at root into db.
// Files are visited in lexical order. A bad file is logged and skipped, and
// every write is an upsert, so running it again over the same tree is harmless.
func ImportArchive(ctx context.Context, db *gorm.DB, root string) (*ImportReport, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("archive root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("archive root %s is not a directory", root)
	}

	start := time.Now()
	report := &ImportReport{Root: root, Families: make(map[string]*FamilyReport, len(importFamilies))}

	for _, family := range importFamilies {
		counts := &FamilyReport{}
		report.Families[family.name] = counts

		if err := importFamilyDir(ctx, db, root, family, counts); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}
		if counts.Imported+counts.Failed+counts.Skipped > 0 {
			slog.Info("imported archive family",
				"family", family.name,
				"imported", counts.Imported,
				"failed", counts.Failed,
				"skipped", counts.Skipped)
		}
	}

	report.Duration = time.Since(start)
	return report, nil
}

func importFamilyDir(ctx context.Context, db *gorm.DB, root string, family importFamily, counts *FamilyReport) error {
	dir := filepath.Join(root, filepath.FromSlash(family.name))
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	maxDepth := 1
	if family.nested {
		maxDepth = 2
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Error("failed to read archive entry", "family", family.name, "path", path, "error", err)
			if d != nil && d.IsDir() && path != dir {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, _ := filepath.Rel(dir, path)
		depth := len(strings.Split(filepath.ToSlash(rel), "/"))
		if d.IsDir() {
			if path != dir && depth >= maxDepth {
				return fs.SkipDir
			}
			return nil
		}
		if depth != maxDepth || !strings.HasSuffix(d.Name(), archiveRecordExtname) {
			return nil
		}

		rec := archiveRecord{
			ID:   strings.TrimSuffix(d.Name(), archiveRecordExtname),
			Path: path,
		}
		if family.nested {
			rec.ParentID = filepath.Base(filepath.Dir(path))
		}

		importRecord(db, family, rec, counts)
		return nil
	})
}

func importRecord(db *gorm.DB, family importFamily, rec archiveRecord, counts *FamilyReport) {
	raw, err := os.ReadFile(rec.Path)
	if err == nil {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || string(raw) == "null" {
			err = errSkipRecord
		} else {
			rec.Raw = raw
			err = family.load(db, rec)
		}
	}

	switch {
	case err == nil:
		counts.Imported++
		metrics.ImportRecord(family.name, true)
	case errors.Is(err, errSkipRecord):
		counts.Skipped++
	default:
		counts.Failed++
		metrics.ImportRecord(family.name, false)
		slog.Error("failed to import archive record",
			"family", family.name,
			"path", rec.Path,
			"id", rec.ID,
			"error", err)
	}
}

// decodeRecord parses an archive document, which must be a JSON object
func decodeRecord(raw []byte, v interface{}) error {
	if len(raw) == 0 || raw[0] != '{' {
		return fmt.Errorf("expected a JSON object")
	}
	return json.Unmarshal(raw, v)
}

type areaInfoDoc struct {
	Name            string                        `json:"name"`
	Description     string                        `json:"description"`
	CreatorID       *string                       `json:"creatorId"`
	Editors         types.FlexList[models.Editor] `json:"editors"`
	ListEditors     types.FlexList[models.Editor] `json:"listEditors"`
	CopiedFromAreas json.RawMessage               `json:"copiedFromAreas"`
	CreationDate    *string                       `json:"creationDate"`
	TotalVisitors   types.FlexInt                 `json:"totalVisitors"`
	IsZeroGravity   *bool                         `json:"isZeroGravity"`
	HasFloatingDust *bool                         `json:"hasFloatingDust"`
	IsCopyable      *bool                         `json:"isCopyable"`
	IsExcluded      *bool                         `json:"isExcluded"`
	RenameCount     types.FlexInt                 `json:"renameCount"`
	CopiedCount     types.FlexInt                 `json:"copiedCount"`
	IsFavorited     bool                          `json:"isFavorited"`
}

// creator is the explicit creator id, else the owning editor
func (d *areaInfoDoc) creator() *string {
	if id := nonEmptyPtr(d.CreatorID); id != nil {
		return id
	}
	for _, e := range d.Editors {
		if e.IsOwner && e.ID != "" {
			id := e.ID
			return &id
		}
	}
	return nil
}

func importAreaInfo(db *gorm.DB, rec archiveRecord) error {
	var doc areaInfoDoc
	if err := decodeRecord(rec.Raw, &doc); err != nil {
		return err
	}

	info := &models.AreaInfoMetadata{
		ID:              rec.ID,
		Name:            doc.Name,
		Description:     doc.Description,
		CreatorID:       doc.creator(),
		Editors:         datatypes.JSONSlice[models.Editor](doc.Editors.Slice()),
		ListEditors:     datatypes.JSONSlice[models.Editor](doc.ListEditors.Slice()),
		CreationDate:    doc.CreationDate,
		TotalVisitors:   int(doc.TotalVisitors),
		IsZeroGravity:   doc.IsZeroGravity,
		HasFloatingDust: doc.HasFloatingDust,
		IsCopyable:      doc.IsCopyable,
		IsExcluded:      doc.IsExcluded,
		RenameCount:     int(doc.RenameCount),
		CopiedCount:     int(doc.CopiedCount),
		IsFavorited:     doc.IsFavorited,
		Raw:             models.NewJSON(rec.Raw),
	}
	if len(doc.CopiedFromAreas) > 0 {
		info.CopiedFromAreas = models.NewJSON(doc.CopiedFromAreas)
	}
	if err := SaveAreaInfo(db, info); err != nil {
		return err
	}

	meta := &models.AreaMetadata{
		ID:          rec.ID,
		Name:        doc.Name,
		Description: doc.Description,
		CreatorID:   info.CreatorID,
	}
	if existing, err := FindAreaMetadata(db, rec.ID); err == nil {
		meta.IsPrivate = existing.IsPrivate
		meta.CreatedAt = existing.CreatedAt
	} else {
		meta.CreatedAt = areaCreatedAt(rec.ID)
	}
	return SaveAreaMetadata(db, meta)
}

// areaCreatedAt dates an area by the timestamp embedded in its id. A zero time
// lets the store stamp the row instead.
func areaCreatedAt(id string) time.Time {
	if t, ok := utils.ObjectIDTime(id); ok {
		return t
	}
	return time.Time{}
}

func importAreaLoad(db *gorm.DB, rec archiveRecord) error {
	var payload areaLoadPayload
	if err := decodeRecord(rec.Raw, &payload); err != nil {
		return err
	}

	load := &models.AreaLoadData{ID: rec.ID, Raw: models.NewJSON(rec.Raw)}
	if payload.AreaKey != nil {
		load.AreaKey = *payload.AreaKey
	}
	if err := SaveAreaLoad(db, load); err != nil {
		return err
	}

	name := nonEmptyPtr(payload.AreaName)
	if name == nil {
		return nil
	}
	if _, err := FindAreaMetadata(db, rec.ID); !errors.Is(err, ErrNotFound) {
		return err
	}
	meta := &models.AreaMetadata{
		ID:        rec.ID,
		Name:      *name,
		CreatorID: nonEmptyPtr(payload.AreaCreatorID),
		CreatedAt: areaCreatedAt(rec.ID),
	}
	if payload.IsPrivate != nil {
		meta.IsPrivate = *payload.IsPrivate
	}
	return SaveAreaMetadata(db, meta)
}

func importAreaSubareas(db *gorm.DB, rec archiveRecord) error {
	var doc struct {
		SubAreas json.RawMessage `json:"subAreas"`
	}
	if err := decodeRecord(rec.Raw, &doc); err != nil {
		return err
	}
	return SaveAreaSubareas(db, &models.AreaSubareas{AreaID: rec.ID, Raw: models.NewJSON(rec.Raw)})
}

func importPersonInfo(db *gorm.DB, rec archiveRecord) error {
	var doc struct {
		ScreenName     string  `json:"screenName"`
		Age            *int    `json:"age"`
		StatusText     *string `json:"statusText"`
		IsFindable     *bool   `json:"isFindable"`
		IsBanned       *bool   `json:"isBanned"`
		LastActivityOn *string `json:"lastActivityOn"`
	}
	if err := decodeRecord(rec.Raw, &doc); err != nil {
		return err
	}
	if doc.ScreenName == "" {
		return fmt.Errorf("missing screenName")
	}
	return SavePerson(db, &models.PersonMetadata{
		ID:             rec.ID,
		ScreenName:     doc.ScreenName,
		Age:            doc.Age,
		StatusText:     doc.StatusText,
		IsFindable:     doc.IsFindable,
		IsBanned:       doc.IsBanned,
		LastActivityOn: doc.LastActivityOn,
		Raw:            models.NewJSON(rec.Raw),
	})
}

type personAreaDoc struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	PlayerCount types.FlexInt `json:"playerCount"`
}

func importPersonAreas(db *gorm.DB, rec archiveRecord) error {
	var doc struct {
		Areas           []personAreaDoc `json:"areas"`
		OwnPrivateAreas []personAreaDoc `json:"ownPrivateAreas"`
	}
	if err := decodeRecord(rec.Raw, &doc); err != nil {
		return err
	}

	rows := make([]models.PersonArea, 0, len(doc.Areas)+len(doc.OwnPrivateAreas))
	seen := make(map[string]bool)
	add := func(areas []personAreaDoc, private bool) {
		for _, a := range areas {
			if a.ID == "" || seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			rows = append(rows, models.PersonArea{
				PersonID:    rec.ID,
				AreaID:      a.ID,
				AreaName:    a.Name,
				PlayerCount: int(a.PlayerCount),
				IsPrivate:   private,
			})
		}
	}
	add(doc.Areas, false)
	add(doc.OwnPrivateAreas, true)

	if err := SavePersonAreas(db, rows); err != nil {
		return fmt.Errorf("failed to save areas of person %s: %w", rec.ID, err)
	}
	return nil
}

func importPersonTopBy(db *gorm.DB, rec archiveRecord) error {
	var doc struct {
		IDs types.FlexList[string] `json:"ids"`
	}
	if err := decodeRecord(rec.Raw, &doc); err != nil {
		return err
	}

	rows := make([]models.PersonTopBy, 0, len(doc.IDs))
	seen := make(map[string]bool)
	for _, id := range doc.IDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, models.PersonTopBy{PersonID: rec.ID, ThingID: id, Rank: len(rows)})
	}
	if err := SavePersonTopBy(db, rows); err != nil {
		return fmt.Errorf("failed to save top things of person %s: %w", rec.ID, err)
	}
	return nil
}

type giftDoc struct {
	ID                string  `json:"id"`
	ThingID           string  `json:"thingId"`
	RotationX         float64 `json:"rotationX"`
	RotationY         float64 `json:"rotationY"`
	RotationZ         float64 `json:"rotationZ"`
	PositionX         float64 `json:"positionX"`
	PositionY         float64 `json:"positionY"`
	PositionZ         float64 `json:"positionZ"`
	DateSent          string  `json:"dateSent"`
	SenderID          string  `json:"senderId"`
	SenderName        string  `json:"senderName"`
	WasSeenByReceiver bool    `json:"wasSeenByReceiver"`
	IsPrivate         bool    `json:"isPrivate"`
}

func importPersonGifts(db *gorm.DB, rec archiveRecord) error {
	var doc struct {
		Gifts []giftDoc `json:"gifts"`
	}
	if err := decodeRecord(rec.Raw, &doc); err != nil {
		return err
	}

	rows := make([]models.PersonGift, 0, len(doc.Gifts))
	for i, g := range doc.Gifts {
		if g.ID == "" || g.ThingID == "" {
			return fmt.Errorf("gift %d is missing id or thingId", i)
		}
		rows = append(rows, models.PersonGift{
			ID:                g.ID,
			PersonID:          rec.ID,
			ThingID:           g.ThingID,
			RotationX:         g.RotationX,
			RotationY:         g.RotationY,
			RotationZ:         g.RotationZ,
			PositionX:         g.PositionX,
			PositionY:         g.PositionY,
			PositionZ:         g.PositionZ,
			DateSent:          g.DateSent,
			SenderID:          g.SenderID,
			SenderName:        g.SenderName,
			WasSeenByReceiver: g.WasSeenByReceiver,
			IsPrivate:         g.IsPrivate,
		})
	}
	if err := SavePersonGifts(db, rows); err != nil {
		return fmt.Errorf("failed to save gifts of person %s: %w", rec.ID, err)
	}
	return nil
}

func importThingDef(db *gorm.DB, rec archiveRecord) error {
	var doc struct {
		Name    *string        `json:"n"`
		Version *types.FlexInt `json:"v"`
	}
	if err := decodeRecord(rec.Raw, &doc); err != nil {
		return err
	}

	def := &models.ThingDef{ID: rec.ID, Name: nonEmptyPtr(doc.Name), Raw: models.NewJSON(rec.Raw)}
	if doc.Version != nil {
		v := int(*doc.Version)
		def.Version = &v
	}
	return SaveThingDef(db, def)
}

func importThingInfo(db *gorm.DB, rec archiveRecord) error {
	var doc struct {
		Name                      string        `json:"name"`
		CreatorID                 string        `json:"creatorId"`
		CreatorName               *string       `json:"creatorName"`
		CreatedDaysAgo            types.FlexInt `json:"createdDaysAgo"`
		CollectedCount            types.FlexInt `json:"collectedCount"`
		PlacedCount               types.FlexInt `json:"placedCount"`
		ClonedFromID              *string       `json:"clonedFromId"`
		AllCreatorsThingsClonable bool          `json:"allCreatorsThingsClonable"`
		IsUnlisted                bool          `json:"isUnlisted"`
	}
	if err := decodeRecord(rec.Raw, &doc); err != nil {
		return err
	}
	if doc.Name == "" || doc.CreatorID == "" {
		return fmt.Errorf("missing name or creatorId")
	}

	return SaveThingInfo(db, &models.ThingInfo{
		ID:                        rec.ID,
		Name:                      doc.Name,
		CreatorID:                 doc.CreatorID,
		CreatorName:               nonEmptyPtr(doc.CreatorName),
		CreatedDaysAgo:            int(doc.CreatedDaysAgo),
		CollectedCount:            int(doc.CollectedCount),
		PlacedCount:               int(doc.PlacedCount),
		ClonedFromID:              nonEmptyPtr(doc.ClonedFromID),
		AllCreatorsThingsClonable: doc.AllCreatorsThingsClonable,
		IsUnlisted:                doc.IsUnlisted,
	})
}

func importThingTags(db *gorm.DB, rec archiveRecord) error {
	var doc struct {
		Tags []json.RawMessage `json:"tags"`
	}
	if err := decodeRecord(rec.Raw, &doc); err != nil {
		return err
	}
	return SaveThingTag(db, &models.ThingTag{ID: rec.ID, Tags: models.NewJSON(rec.Raw)})
}

func importPlacement(db *gorm.DB, rec archiveRecord) error {
	var doc struct {
		PlacerID      string        `json:"placerId"`
		PlacerName    *string       `json:"placerName"`
		PlacedDaysAgo types.FlexInt `json:"placedDaysAgo"`
		CopiedVia     *string       `json:"copiedVia"`
	}
	if err := decodeRecord(rec.Raw, &doc); err != nil {
		return err
	}
	if doc.PlacerID == "" {
		return fmt.Errorf("missing placerId")
	}

	return SavePlacement(db, &models.PlacementMetadata{
		AreaID:        rec.ParentID,
		PlacementID:   rec.ID,
		PlacerID:      doc.PlacerID,
		PlacerName:    doc.PlacerName,
		PlacedDaysAgo: int(doc.PlacedDaysAgo),
		CopiedVia:     nonEmptyPtr(doc.CopiedVia),
	})
}

type forumDoc struct {
	ID                    string        `json:"id"`
	Name                  string        `json:"name"`
	Description           string        `json:"description"`
	CreatorID             string        `json:"creatorId"`
	CreatorName           string        `json:"creatorName"`
	ThreadCount           types.FlexInt `json:"threadCount"`
	LatestCommentDate     *string       `json:"latestCommentDate"`
	ProtectionLevel       types.FlexInt `json:"protectionLevel"`
	CreationDate          string        `json:"creationDate"`
	DialogThingID         *string       `json:"dialogThingId"`
	DialogColor           *string       `json:"dialogColor"`
	LatestCommentText     *string       `json:"latestCommentText"`
	LatestCommentUserID   *string       `json:"latestCommentUserId"`
	LatestCommentUserName *string       `json:"latestCommentUserName"`
}

type threadDoc struct {
	ID                    string        `json:"id"`
	ForumID               string        `json:"forumId"`
	Title                 string        `json:"title"`
	TitleClarification    *string       `json:"titleClarification"`
	CreatorID             string        `json:"creatorId"`
	CreatorName           string        `json:"creatorName"`
	LatestCommentDate     *string       `json:"latestCommentDate"`
	CommentCount          types.FlexInt `json:"commentCount"`
	IsLocked              bool          `json:"isLocked"`
	IsSticky              bool          `json:"isSticky"`
	CreationDate          string        `json:"creationDate"`
	LatestCommentText     *string       `json:"latestCommentText"`
	LatestCommentUserID   *string       `json:"latestCommentUserId"`
	LatestCommentUserName *string       `json:"latestCommentUserName"`
	Comments              []commentDoc  `json:"comments"`
}

type commentDoc struct {
	Date           string     `json:"date"`
	UserID         string     `json:"userId"`
	UserName       string     `json:"userName"`
	Text           string     `json:"text"`
	LastEditedDate *string    `json:"lastEditedDate"`
	Likes          []string   `json:"likes"`
	OldestLikes    []LikeView `json:"oldestLikes"`
	TotalLikes     *int       `json:"totalLikes"`
	ThingID        *string    `json:"thingId"`
}

func (d *threadDoc) model(id, forumID string, sticky bool) *models.ForumThread {
	if d.ForumID != "" {
		forumID = d.ForumID
	}
	return &models.ForumThread{
		ID:                    id,
		ForumID:               forumID,
		Title:                 d.Title,
		TitleClarification:    nonEmptyPtr(d.TitleClarification),
		CreatorID:             d.CreatorID,
		CreatorName:           d.CreatorName,
		LatestCommentDate:     d.LatestCommentDate,
		CommentCount:          int(d.CommentCount),
		IsLocked:              d.IsLocked,
		IsSticky:              d.IsSticky || sticky,
		CreationDate:          d.CreationDate,
		LatestCommentText:     d.LatestCommentText,
		LatestCommentUserID:   d.LatestCommentUserID,
		LatestCommentUserName: d.LatestCommentUserName,
	}
}

// likes pairs the liking user ids with the names carried by oldestLikes
func (d *commentDoc) likes(commentID string) []models.ForumCommentLike {
	likes := make([]models.ForumCommentLike, 0, len(d.Likes))
	seen := make(map[string]bool)
	add := func(id, name string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		likes = append(likes, models.ForumCommentLike{
			CommentID: commentID,
			UserID:    id,
			UserName:  name,
			Position:  len(likes),
		})
	}

	if len(d.Likes) > 0 {
		for i, id := range d.Likes {
			name := ""
			if i < len(d.OldestLikes) {
				name = d.OldestLikes[i].Name
			}
			add(id, name)
		}
		return likes
	}
	for _, l := range d.OldestLikes {
		add(l.ID, l.Name)
	}
	return likes
}

func importForum(db *gorm.DB, rec archiveRecord) error {
	var doc struct {
		Forum    forumDoc    `json:"forum"`
		Threads  []threadDoc `json:"threads"`
		Stickies []threadDoc `json:"stickies"`
	}
	if err := decodeRecord(rec.Raw, &doc); err != nil {
		return err
	}
	if doc.Forum.Name == "" {
		return fmt.Errorf("missing forum name")
	}

	f := doc.Forum
	if err := SaveForum(db, &models.Forum{
		ID:                    rec.ID,
		Name:                  f.Name,
		Description:           f.Description,
		CreatorID:             f.CreatorID,
		CreatorName:           f.CreatorName,
		ThreadCount:           int(f.ThreadCount),
		LatestCommentDate:     f.LatestCommentDate,
		ProtectionLevel:       int(f.ProtectionLevel),
		CreationDate:          f.CreationDate,
		DialogThingID:         nonEmptyPtr(f.DialogThingID),
		DialogColor:           nonEmptyPtr(f.DialogColor),
		LatestCommentText:     f.LatestCommentText,
		LatestCommentUserID:   f.LatestCommentUserID,
		LatestCommentUserName: f.LatestCommentUserName,
	}); err != nil {
		return err
	}

	for _, list := range []struct {
		threads []threadDoc
		sticky  bool
	}{{doc.Threads, false}, {doc.Stickies, true}} {
		for i := range list.threads {
			t := &list.threads[i]
			if t.ID == "" {
				return fmt.Errorf("thread %d of forum %s has no id", i, rec.ID)
			}
			if _, err := FindThread(db, t.ID); err == nil {
				// a thread archive imported earlier carries the fuller record
				continue
			}
			if err := SaveThread(db, t.model(t.ID, rec.ID, list.sticky)); err != nil {
				return err
			}
		}
	}
	return nil
}

func importThread(db *gorm.DB, rec archiveRecord) error {
	var doc struct {
		Forum  forumDoc  `json:"forum"`
		Thread threadDoc `json:"thread"`
	}
	if err := decodeRecord(rec.Raw, &doc); err != nil {
		return err
	}
	forumID := doc.Thread.ForumID
	if forumID == "" {
		forumID = doc.Forum.ID
	}
	if forumID == "" {
		return fmt.Errorf("thread has no forum id")
	}

	if err := SaveThread(db, doc.Thread.model(rec.ID, forumID, false)); err != nil {
		return err
	}

	for i := range doc.Thread.Comments {
		c := &doc.Thread.Comments[i]
		id := CommentID(rec.ID, i)
		likes := c.likes(id)
		total := len(likes)
		if c.TotalLikes != nil {
			total = *c.TotalLikes
		}
		comment := &models.ForumComment{
			ID:             id,
			ThreadID:       rec.ID,
			Position:       i,
			Date:           c.Date,
			UserID:         c.UserID,
			UserName:       c.UserName,
			Text:           c.Text,
			LastEditedDate: nonEmptyPtr(c.LastEditedDate),
			TotalLikes:     total,
			ThingID:        nonEmptyPtr(c.ThingID),
		}
		if err := SaveComment(db, comment, likes); err != nil {
			return err
		}
	}
	return nil
}
