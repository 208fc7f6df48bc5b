package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// GameRoom is joined by every client showing the game
const GameRoom = "soberlife"

// SocketServer holds the socket.io server and the connected clients by socket id
type SocketServer struct {
	Sio_server  *socket.Server
	Connections map[string]*socket.Socket
	mutex       sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		Connections: make(map[string]*socket.Socket),
	}
}

func (s *SocketServer) AddConnection(id string, client *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Connections[id] = client
}

func (s *SocketServer) RemoveConnection(id string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.Connections, id)
}

func (s *SocketServer) ConnectionCount() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.Connections)
}
