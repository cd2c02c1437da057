package services

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"
)

// PersonFlags are the relationship flags reported for a person in an area.
// Field order is the wire order.
type PersonFlags struct {
	IsFriend         bool `json:"isFriend"`
	IsEditorHere     bool `json:"isEditorHere"`
	IsListEditorHere bool `json:"isListEditorHere"`
	IsOwnerHere      bool `json:"isOwnerHere"`
	IsAreaLocked     bool `json:"isAreaLocked"`
	IsOnline         bool `json:"isOnline"`
}

// EditorStatus reports whether personID is an editor, and an owner, of areaID.
// An unknown area or person is simply not an editor.
func EditorStatus(db *gorm.DB, areaID, personID string) (isEditor, isOwner bool) {
	if areaID == "" || personID == "" {
		return false, false
	}
	info, err := FindAreaInfo(db, areaID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Error("editor lookup failed", "areaId", areaID, "error", err)
		}
		return false, false
	}
	for _, editor := range info.Editors {
		if editor.ID == personID {
			return true, editor.IsOwner
		}
	}
	return false, false
}

// RequesterPersonID resolves a session token to the person linked to its account
func RequesterPersonID(db *gorm.DB, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	user, err := FindUserBySession(db, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNoSession
		}
		return "", err
	}
	if user.PersonID == nil || *user.PersonID == "" {
		return "", ErrNoLinkedPerson
	}
	return *user.PersonID, nil
}

// DerivePersonFlags computes the relationship flags for targetID in areaID as
// seen by the holder of token. Lock, list editor and presence are never set.
func DerivePersonFlags(db *gorm.DB, token, areaID, targetID string) PersonFlags {
	var flags PersonFlags
	flags.IsEditorHere, flags.IsOwnerHere = EditorStatus(db, areaID, targetID)

	requester, err := RequesterPersonID(db, token)
	if err != nil {
		if !errors.Is(err, ErrNoSession) && !errors.Is(err, ErrNoLinkedPerson) {
			slog.Error("session lookup failed", "error", err)
		}
		return flags
	}
	isFriend, err := IsFriend(db, requester, targetID)
	if err != nil {
		slog.Error("friend lookup failed", "personId", requester, "friendId", targetID, "error", err)
		return flags
	}
	flags.IsFriend = isFriend
	return flags
}

// FriendEntry is one friend in a friends-by-strength listing
type FriendEntry struct {
	ID             string  `json:"id"`
	ScreenName     string  `json:"screenName"`
	StatusText     string  `json:"statusText"`
	LastActivityOn *string `json:"lastActivityOn"`
	IsOnline       bool    `json:"isOnline"`
	Strength       *int    `json:"strength"`
}

// FriendBucket wraps a list of friends
type FriendBucket struct {
	Friends []FriendEntry `json:"friends"`
}

// FriendsByStrength is the friend listing, split by presence
type FriendsByStrength struct {
	Online  FriendBucket `json:"online"`
	Offline FriendBucket `json:"offline"`
}

// ListFriendsByStrength lists the friends of the session holder. Nobody is ever
// online, so every friend lands in the offline bucket.
func ListFriendsByStrength(db *gorm.DB, token string) (*FriendsByStrength, error) {
	personID, err := RequesterPersonID(db, token)
	if err != nil {
		return nil, err
	}
	rows, err := FindFriendsByStrength(db, personID)
	if err != nil {
		return nil, err
	}

	result := &FriendsByStrength{
		Online:  FriendBucket{Friends: []FriendEntry{}},
		Offline: FriendBucket{Friends: make([]FriendEntry, 0, len(rows))},
	}
	for _, row := range rows {
		entry := FriendEntry{
			ID:             row.ID,
			ScreenName:     row.ScreenName,
			LastActivityOn: row.LastActivityOn,
			Strength:       row.Strength,
		}
		if row.StatusText != nil {
			entry.StatusText = *row.StatusText
		}
		if entry.IsOnline {
			result.Online.Friends = append(result.Online.Friends, entry)
		} else {
			result.Offline.Friends = append(result.Offline.Friends, entry)
		}
	}
	return result, nil
}

// ChangeFriend adds or removes the session holder's friend row for friendID.
// Adding requires friendID to be a known person.
func ChangeFriend(db *gorm.DB, token, friendID string, add bool) error {
	personID, err := RequesterPersonID(db, token)
	if err != nil {
		return err
	}
	if add {
		if _, err := FindPerson(db, friendID); err != nil {
			return err
		}
		strength := 1
		return AddFriend(db, personID, friendID, &strength)
	}
	_, err = RemoveFriend(db, personID, friendID)
	return err
}
