package buffer

import "github.com/google/uuid"

// TextChange describes one content-changing edit.
// A deletion has an empty Inserted; an insertion has a zero DeletedLength.
type TextChange struct {
	// Position is the offset where the edit took effect, after clamping.
	Position int

	// Inserted is the text that was inserted at Position.
	Inserted string

	// DeletedLength is the number of bytes removed at Position.
	DeletedLength int

	// Deleted is the text that was removed.
	Deleted string

	// Revision is the buffer revision created by the edit.
	Revision RevisionID
}

// ChangeHandler receives change notifications.
type ChangeHandler func(TextChange)

// Subscription identifies a registered ChangeHandler.
type Subscription struct {
	ID string
}

type subscriber struct {
	id      string
	handler ChangeHandler
}

// Subscribe registers handler to be called after every content-changing edit.
// Handlers are called in subscription order, outside the buffer's write lock.
func (b *Buffer) Subscribe(handler ChangeHandler) Subscription {
	sub := Subscription{ID: uuid.NewString()}

	b.subsMu.Lock()
	b.subs = append(b.subs, subscriber{id: sub.ID, handler: handler})
	b.subsMu.Unlock()
	return sub
}

// Unsubscribe removes a handler. Returns false if it was not registered.
func (b *Buffer) Unsubscribe(sub Subscription) bool {
	b.subsMu.Lock()
	defer b.subsMu.Unlock()

	for i, s := range b.subs {
		if s.id == sub.ID {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// notify delivers change to a copy of the current subscriber list.
func (b *Buffer) notify(change TextChange) {
	b.subsMu.RLock()
	subs := b.subs
	b.subsMu.RUnlock()

	for _, s := range subs {
		s.handler(change)
	}
}
