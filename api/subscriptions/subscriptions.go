// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pborman/uuid"
	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/api/utils"
	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/ledger"
	"github.com/BicashFinance/bicash-protocol/log"
	"github.com/BicashFinance/bicash-protocol/logdb"
	"github.com/BicashFinance/bicash-protocol/metrics"
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveCount = metrics.LazyLoadGauge("api_active_websocket_count")
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	ledger         *ledger.Ledger
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
}

func New(ledger *ledger.Ledger, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		ledger:         ledger,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowedOrigin := range allowedOrigins {
					if allowedOrigin == origin || allowedOrigin == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// parsePosition reads the call sequence to stream from, the head by default.
func (s *Subscriptions) parsePosition(posStr string) (uint64, error) {
	head := s.ledger.Head().Seq
	if posStr == "" {
		return head, nil
	}
	pos, err := strconv.ParseUint(posStr, 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if pos > head {
		return 0, utils.BadRequest(errors.New("pos: beyond head"))
	}
	if head-pos > s.backtraceLimit {
		return 0, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return pos, nil
}

func parseAddress(query map[string][]string, key string) (*bicash.Address, error) {
	v := first(query, key)
	if v == "" {
		return nil, nil
	}
	addr, err := bicash.ParseAddress(v)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, key))
	}
	return &addr, nil
}

func parseTopic(query map[string][]string, key string) (*bicash.Bytes32, error) {
	v := first(query, key)
	if v == "" {
		return nil, nil
	}
	topic, err := bicash.ParseBytes32(v)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, key))
	}
	return &topic, nil
}

func first(query map[string][]string, key string) string {
	if vs := query[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func (s *Subscriptions) handleEventReader(req *http.Request) (msgReader, error) {
	pos, err := s.parsePosition(req.URL.Query().Get("pos"))
	if err != nil {
		return nil, err
	}
	query := req.URL.Query()
	criteria := &logdb.EventCriteria{}
	if criteria.Address, err = parseAddress(query, "addr"); err != nil {
		return nil, err
	}
	for i := range criteria.Topics {
		if criteria.Topics[i], err = parseTopic(query, "t"+strconv.Itoa(i)); err != nil {
			return nil, err
		}
	}
	return newEventReader(s.ledger, pos, criteria), nil
}

func (s *Subscriptions) handleTransferReader(req *http.Request) (msgReader, error) {
	pos, err := s.parsePosition(req.URL.Query().Get("pos"))
	if err != nil {
		return nil, err
	}
	query := req.URL.Query()
	criteria := &logdb.TransferCriteria{}
	if criteria.Token, err = parseAddress(query, "token"); err != nil {
		return nil, err
	}
	if criteria.Caller, err = parseAddress(query, "caller"); err != nil {
		return nil, err
	}
	if criteria.Sender, err = parseAddress(query, "sender"); err != nil {
		return nil, err
	}
	if criteria.Recipient, err = parseAddress(query, "recipient"); err != nil {
		return nil, err
	}
	return newTransferReader(s.ledger, pos, criteria), nil
}

func (s *Subscriptions) handleHeadReader(req *http.Request) (msgReader, error) {
	pos, err := s.parsePosition(req.URL.Query().Get("pos"))
	if err != nil {
		return nil, err
	}
	return &headReader{s.ledger, pos}, nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	var (
		reader msgReader
		err    error
	)
	subject := mux.Vars(req)["subject"]
	switch subject {
	case "event":
		reader, err = s.handleEventReader(req)
	case "transfer":
		reader, err = s.handleTransferReader(req)
	case "head":
		reader, err = s.handleHeadReader(req)
	default:
		return utils.HTTPError(errors.New("not found"), http.StatusNotFound)
	}
	if err != nil {
		return err
	}

	conn, closed, err := s.setupConn(w, req)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	id := uuid.New()
	logger.Debug("subscription opened", "id", id, "subject", subject)
	metricActiveCount().Add(1)
	defer metricActiveCount().Add(-1)

	err = s.pipe(req.Context(), conn, reader, closed)
	s.closeConn(conn, err)
	logger.Debug("subscription closed", "id", id, "err", err)
	return nil
}

func (s *Subscriptions) setupConn(w http.ResponseWriter, req *http.Request) (*websocket.Conn, chan struct{}, error) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return nil, nil, err
	}

	closed := make(chan struct{})
	// start read loop to handle close event
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read err", "err", err)
				close(closed)
				break
			}
		}
	}()

	return conn, closed, nil
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, err error) {
	var closeMsg []byte
	if err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	} else {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	}

	if err := conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		logger.Debug("write close message", "err", err)
	}

	if err := conn.Close(); err != nil {
		logger.Debug("close websocket", "err", err)
	}
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader msgReader, closed chan struct{}) error {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		// taken before reading, so no change is missed
		changed := s.ledger.Changed()

		msgs, hasMore, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}

		if hasMore {
			select {
			case <-s.done:
				return nil
			case <-closed:
				return nil
			default:
			}
			continue
		}

		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-changed:
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close stops all subscriptions and waits for their connections to close.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("subscriptions_subject").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
