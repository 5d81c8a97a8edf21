package casino

import (
	"fmt"

	"arguz-casino/internal/audit"
	"arguz-casino/internal/event"
	"arguz-casino/internal/ws"
)

// RegisterConsumers wires the post-commit side channels. All of these run
// after the round transaction is durable: money never moves here.
func RegisterConsumers(bus *event.Bus, auditor *audit.Service, board *Leaderboard, monitor *RTPMonitor, hub *ws.Hub) {
	bus.Subscribe(event.EventRoundResolved, func(payload interface{}) {
		ev, ok := payload.(*RoundEvent)
		if !ok {
			return
		}

		result := "loss"
		if ev.Win {
			result = "win"
		}
		auditor.Log(ev.UserID, "casino_play",
			fmt.Sprintf(`{"round_id":%d,"game":%q,"result":%q}`, ev.RoundID, ev.Game, result))

		board.Record(ev.UserID, ev.Stake, ev.Payout)
		monitor.Record(ev.Game, ev.Stake, ev.Payout)
		hub.BroadcastJSON(ev)
	})
}
