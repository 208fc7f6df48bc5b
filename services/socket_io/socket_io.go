package socket_io

import (
	game_constants "Soberlife/constants/game"
	"Soberlife/services/achievements"
	"Soberlife/services/game"
	"Soberlife/services/socket_io/handlers"
	socketio_types "Soberlife/services/socket_io/types"
	socketio_utils "Soberlife/services/socket_io/utils"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	eio_log "github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// Start mounts socket.io on the router and forwards every notification
// lifecycle event to the connected clients.
func (sio *MySocketServer) Start(router *gin.Engine, app *game.App, center *achievements.NotificationCenter, debug bool) {
	eio_log.DEBUG = debug
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	// KEY: the map must exist before the first connection
	sio.Connections = make(map[string]*socket.Socket)
	server := (*socketio_types.SocketServer)(sio)

	sio.Sio_server = socket.NewServer(nil, nil)
	broadcast := func(event string, payload interface{}) {
		sio.Sio_server.To(socket.Room(socketio_types.GameRoom)).Emit(event, payload)
	}
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		id := string(client.Id())
		emit := func(event string, payload interface{}) {
			client.Emit(event, payload)
		}

		server.AddConnection(id, client)
		client.Join(socket.Room(socketio_types.GameRoom))
		log.Printf("[CONNECT] Client %s joined, %d connected", id, server.ConnectionCount())

		handlers.HandleSync(center, emit)()

		client.On(game_constants.EVENT_DISMISS_NOTIFICATION, handlers.HandleDismissNotification(center, emit, id))
		client.On(game_constants.EVENT_GET_STATE, handlers.HandleGetState(app, emit))
		client.On(game_constants.EVENT_PURCHASE_UPGRADE, handlers.HandlePurchaseUpgrade(app, emit, id))
		client.On("disconnecting", handlers.HandleDisconnecting(id, server))
	})

	app.OnChange(handlers.BroadcastState(broadcast))

	center.Subscribe(func(ev achievements.NotificationEvent) {
		event := socketio_utils.EventName(ev.Kind)
		if event == "" {
			return
		}
		broadcast(event, socketio_utils.NotificationPayload(ev.Notification))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	log.Println("Socket server started")
}

func (sio *MySocketServer) Close() {
	if sio.Sio_server != nil {
		sio.Sio_server.Close(nil)
	}
}
