package services

import (
	"fmt"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"gorm.io/gorm"
)

// BoardtownForumID is answered for forum names that are not archived
const BoardtownForumID = "629158392f5bde05e84386d0"

// ForumView is the forum wire shape
type ForumView struct {
	Name                  string  `json:"name"`
	Description           string  `json:"description"`
	CreatorID             string  `json:"creatorId"`
	CreatorName           string  `json:"creatorName"`
	ThreadCount           int     `json:"threadCount"`
	LatestCommentDate     *string `json:"latestCommentDate"`
	ProtectionLevel       int     `json:"protectionLevel"`
	CreationDate          string  `json:"creationDate"`
	DialogThingID         *string `json:"dialogThingId,omitempty"`
	DialogColor           *string `json:"dialogColor,omitempty"`
	LatestCommentText     *string `json:"latestCommentText,omitempty"`
	LatestCommentUserID   *string `json:"latestCommentUserId,omitempty"`
	LatestCommentUserName *string `json:"latestCommentUserName,omitempty"`
	UserIsModerator       bool    `json:"user_isModerator"`
	UserHasFavorited      bool    `json:"user_hasFavorited"`
	ID                    string  `json:"id,omitempty"`
}

// ThreadView is the thread wire shape. Comments are only set for a full thread.
type ThreadView struct {
	ForumID               string        `json:"forumId"`
	Title                 string        `json:"title"`
	TitleClarification    *string       `json:"titleClarification,omitempty"`
	CreatorID             string        `json:"creatorId"`
	CreatorName           string        `json:"creatorName"`
	LatestCommentDate     *string       `json:"latestCommentDate"`
	CommentCount          int           `json:"commentCount"`
	Comments              []CommentView `json:"comments,omitempty"`
	IsLocked              bool          `json:"isLocked"`
	IsSticky              bool          `json:"isSticky"`
	CreationDate          string        `json:"creationDate"`
	LatestCommentText     *string       `json:"latestCommentText,omitempty"`
	LatestCommentUserID   *string       `json:"latestCommentUserId,omitempty"`
	LatestCommentUserName *string       `json:"latestCommentUserName,omitempty"`
	ID                    string        `json:"id"`
}

// LikeView names one user who liked a comment
type LikeView struct {
	ID   string `json:"id"`
	Name string `json:"n"`
}

// CommentView is the comment wire shape
type CommentView struct {
	Date           string     `json:"date"`
	UserID         string     `json:"userId"`
	UserName       string     `json:"userName"`
	Text           string     `json:"text"`
	LastEditedDate *string    `json:"lastEditedDate,omitempty"`
	Likes          []string   `json:"likes"`
	OldestLikes    []LikeView `json:"oldestLikes"`
	NewestLikes    []LikeView `json:"newestLikes"`
	TotalLikes     int        `json:"totalLikes"`
	ThingID        *string    `json:"thingId,omitempty"`
}

// ForumPage is the response for one forum with its thread summaries
type ForumPage struct {
	OK       bool         `json:"ok"`
	Forum    ForumView    `json:"forum"`
	Threads  []ThreadView `json:"threads"`
	Stickies []ThreadView `json:"stickies"`
}

// ThreadPage is the response for one thread with its comments
type ThreadPage struct {
	OK     bool       `json:"ok"`
	Forum  ForumView  `json:"forum"`
	Thread ThreadView `json:"thread"`
}

// CommentID is the deterministic id of the comment at index in a thread
func CommentID(threadID string, index int) string {
	return fmt.Sprintf("%s-%04d", threadID, index)
}

// NewForumView maps a stored forum onto its wire shape
func NewForumView(f *models.Forum) ForumView {
	return ForumView{
		Name:                  f.Name,
		Description:           f.Description,
		CreatorID:             f.CreatorID,
		CreatorName:           f.CreatorName,
		ThreadCount:           f.ThreadCount,
		LatestCommentDate:     f.LatestCommentDate,
		ProtectionLevel:       f.ProtectionLevel,
		CreationDate:          f.CreationDate,
		DialogThingID:         f.DialogThingID,
		DialogColor:           f.DialogColor,
		LatestCommentText:     f.LatestCommentText,
		LatestCommentUserID:   f.LatestCommentUserID,
		LatestCommentUserName: f.LatestCommentUserName,
	}
}

// NewThreadView maps a stored thread onto its wire shape
func NewThreadView(t *models.ForumThread) ThreadView {
	return ThreadView{
		ForumID:               t.ForumID,
		Title:                 t.Title,
		TitleClarification:    t.TitleClarification,
		CreatorID:             t.CreatorID,
		CreatorName:           t.CreatorName,
		LatestCommentDate:     t.LatestCommentDate,
		CommentCount:          t.CommentCount,
		IsLocked:              t.IsLocked,
		IsSticky:              t.IsSticky,
		CreationDate:          t.CreationDate,
		LatestCommentText:     t.LatestCommentText,
		LatestCommentUserID:   t.LatestCommentUserID,
		LatestCommentUserName: t.LatestCommentUserName,
		ID:                    t.ID,
	}
}

// SaveForum upserts a forum
func SaveForum(db *gorm.DB, f *models.Forum) error {
	if err := upsert(db, f); err != nil {
		return fmt.Errorf("failed to save forum %s: %w", f.ID, err)
	}
	return nil
}

// SaveThread upserts a thread
func SaveThread(db *gorm.DB, t *models.ForumThread) error {
	if err := upsert(db, t); err != nil {
		return fmt.Errorf("failed to save thread %s: %w", t.ID, err)
	}
	return nil
}

// SaveComment upserts a comment and its likes
func SaveComment(db *gorm.DB, c *models.ForumComment, likes []models.ForumCommentLike) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, c); err != nil {
			return fmt.Errorf("failed to save comment %s: %w", c.ID, err)
		}
		if len(likes) == 0 {
			return nil
		}
		if err := upsert(tx, &likes); err != nil {
			return fmt.Errorf("failed to save likes of comment %s: %w", c.ID, err)
		}
		return nil
	})
}

// FindForum loads a forum by id
func FindForum(db *gorm.DB, id string) (*models.Forum, error) {
	return findOne[models.Forum](db, "id = ?", id)
}

// FindForumIDByName returns the id of the forum with the given name
func FindForumIDByName(db *gorm.DB, name string) (string, error) {
	f, err := findOne[models.Forum](db, "name = ?", name)
	if err != nil {
		return "", err
	}
	return f.ID, nil
}

// FindThread loads a thread by id
func FindThread(db *gorm.DB, id string) (*models.ForumThread, error) {
	return findOne[models.ForumThread](db, "id = ?", id)
}

// FindForumPage loads a forum with its threads split into regular and sticky
func FindForumPage(db *gorm.DB, id string) (*ForumPage, error) {
	forum, err := FindForum(db, id)
	if err != nil {
		return nil, err
	}

	var threads []models.ForumThread
	if err := quiet(db).Where("forum_id = ?", id).
		Order("latest_comment_date DESC").Order("id").
		Find(&threads).Error; err != nil {
		return nil, err
	}

	page := &ForumPage{
		OK:       true,
		Forum:    NewForumView(forum),
		Threads:  []ThreadView{},
		Stickies: []ThreadView{},
	}
	for i := range threads {
		if threads[i].IsSticky {
			page.Stickies = append(page.Stickies, NewThreadView(&threads[i]))
		} else {
			page.Threads = append(page.Threads, NewThreadView(&threads[i]))
		}
	}
	return page, nil
}

// FindThreadPage loads a thread with its comments and likes
func FindThreadPage(db *gorm.DB, id string) (*ThreadPage, error) {
	thread, err := FindThread(db, id)
	if err != nil {
		return nil, err
	}

	forum := ForumView{ID: thread.ForumID}
	if f, err := FindForum(db, thread.ForumID); err == nil {
		forum = NewForumView(f)
		forum.ID = f.ID
	}

	comments, err := findComments(db, id)
	if err != nil {
		return nil, err
	}

	view := NewThreadView(thread)
	view.Comments = comments
	return &ThreadPage{OK: true, Forum: forum, Thread: view}, nil
}

func findComments(db *gorm.DB, threadID string) ([]CommentView, error) {
	var rows []models.ForumComment
	if err := quiet(db).Where("thread_id = ?", threadID).Order("position").Find(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]string, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var likes []models.ForumCommentLike
	if len(ids) > 0 {
		if err := quiet(db).Where("comment_id IN ?", ids).
			Order("position").
			Find(&likes).Error; err != nil {
			return nil, err
		}
	}
	byComment := make(map[string][]models.ForumCommentLike, len(rows))
	for _, l := range likes {
		byComment[l.CommentID] = append(byComment[l.CommentID], l)
	}

	views := make([]CommentView, 0, len(rows))
	for _, c := range rows {
		v := CommentView{
			Date:           c.Date,
			UserID:         c.UserID,
			UserName:       c.UserName,
			Text:           c.Text,
			LastEditedDate: c.LastEditedDate,
			Likes:          []string{},
			OldestLikes:    []LikeView{},
			NewestLikes:    []LikeView{},
			TotalLikes:     c.TotalLikes,
			ThingID:        c.ThingID,
		}
		for _, l := range byComment[c.ID] {
			v.Likes = append(v.Likes, l.UserID)
			v.OldestLikes = append(v.OldestLikes, LikeView{ID: l.UserID, Name: l.UserName})
		}
		views = append(views, v)
	}
	return views, nil
}

// DeleteThread removes a thread with its comments and likes
func DeleteThread(db *gorm.DB, id string) (int64, error) {
	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		n, err := deleteThreadTx(tx, id)
		affected = n
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete thread %s: %w", id, err)
	}
	if affected == 0 {
		return 0, ErrNotFound
	}
	return affected, nil
}

// DeleteForum removes a forum and every thread in it
func DeleteForum(db *gorm.DB, id string) (int64, error) {
	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var threadIDs []string
		if err := tx.Model(&models.ForumThread{}).Where("forum_id = ?", id).Pluck("id", &threadIDs).Error; err != nil {
			return err
		}
		for _, threadID := range threadIDs {
			n, err := deleteThreadTx(tx, threadID)
			if err != nil {
				return err
			}
			affected += n
		}
		res := tx.Where("id = ?", id).Delete(&models.Forum{})
		if res.Error != nil {
			return res.Error
		}
		affected += res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete forum %s: %w", id, err)
	}
	if affected == 0 {
		return 0, ErrNotFound
	}
	return affected, nil
}

func deleteThreadTx(tx *gorm.DB, id string) (int64, error) {
	var affected int64
	commentIDs := tx.Model(&models.ForumComment{}).Select("id").Where("thread_id = ?", id)
	res := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.ForumCommentLike{})
	if res.Error != nil {
		return 0, res.Error
	}
	affected += res.RowsAffected
	res = tx.Where("thread_id = ?", id).Delete(&models.ForumComment{})
	if res.Error != nil {
		return 0, res.Error
	}
	affected += res.RowsAffected
	res = tx.Where("id = ?", id).Delete(&models.ForumThread{})
	if res.Error != nil {
		return 0, res.Error
	}
	return affected + res.RowsAffected, nil
}
