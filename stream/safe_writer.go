package stream

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// safeWriter serialises writes to a websocket connection. gorilla allows one
// concurrent writer; the client pump and Hub.Close both write.
type safeWriter struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newSafeWriter(conn *websocket.Conn) *safeWriter {
	return &safeWriter{conn: conn}
}

func (w *safeWriter) WriteMessage(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return w.conn.WriteMessage(messageType, data)
}

// CloseWith sends a close frame and closes the connection.
func (w *safeWriter) CloseWith(code int, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	msg := websocket.FormatCloseMessage(code, text)
	_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return w.conn.Close()
}
