// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ledger admits calls against the protocol contracts one at a time and persists their effects.
package ledger

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/builtin"
	"github.com/BicashFinance/bicash-protocol/co"
	"github.com/BicashFinance/bicash-protocol/genesis"
	"github.com/BicashFinance/bicash-protocol/kv"
	"github.com/BicashFinance/bicash-protocol/log"
	"github.com/BicashFinance/bicash-protocol/logdb"
	"github.com/BicashFinance/bicash-protocol/runtime"
	"github.com/BicashFinance/bicash-protocol/state"
	"github.com/BicashFinance/bicash-protocol/tx"
	"github.com/BicashFinance/bicash-protocol/xenv"
)

var logger = log.WithContext("pkg", "ledger")

var (
	// ErrGenesisMismatch is returned when the database was initialized by another genesis.
	ErrGenesisMismatch = errors.New("genesis mismatch")
	// ErrContractCaller is returned for calls made on behalf of a protocol contract.
	// Contracts act only from within the methods of the runtime.
	ErrContractCaller = errors.New("caller is a protocol contract")
	// ErrBadSignature is returned when the signer of a call cannot be recovered.
	ErrBadSignature = errors.New("bad signature")
	// ErrBadNonce is returned when a signed call does not carry the next nonce of its signer.
	ErrBadNonce = errors.New("bad nonce")
)

// Options of the ledger.
type Options struct {
	// BlockInterval is the time span of a block in seconds.
	BlockInterval uint64
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// Ledger is the single writer of the protocol state.
type Ledger struct {
	lock      sync.RWMutex
	db        kv.Store
	meta      kv.Store
	stater    *state.Stater
	logDB     *logdb.LogDB
	genesisID bicash.Bytes32
	launch    uint64
	interval  uint64
	clock     func() time.Time
	head      atomic.Pointer[Head]
	signal    co.Signal
}

// New opens the ledger stored in db, building the genesis when db is empty.
func New(db kv.Store, logDB *logdb.LogDB, gene *genesis.Genesis, opts Options) (*Ledger, error) {
	if opts.BlockInterval == 0 {
		opts.BlockInterval = bicash.BlockInterval
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	l := &Ledger{
		db:        db,
		meta:      metaBucket.NewStore(db),
		stater:    state.NewStater(db),
		logDB:     logDB,
		genesisID: gene.ID(),
		launch:    gene.Timestamp(),
		interval:  opts.BlockInterval,
		clock:     opts.Clock,
	}

	storedID, ok, err := loadGenesisID(l.meta)
	if err != nil {
		return nil, errors.Wrap(err, "load genesis id")
	}
	if !ok {
		if err := l.initGenesis(gene); err != nil {
			return nil, errors.Wrap(err, "init genesis")
		}
	} else if storedID != gene.ID() {
		return nil, errors.Wrapf(ErrGenesisMismatch, "want %v, found %v", gene.ID(), storedID)
	}

	head, err := loadHead(l.meta)
	if err != nil {
		return nil, errors.Wrap(err, "load head")
	}
	l.head.Store(head)

	// logs are written ahead of the state, drop those of calls never committed
	w := logDB.NewWriter()
	if err := w.Truncate(head.Seq + 1); err != nil {
		_ = w.Rollback()
		return nil, err
	}
	if err := w.Commit(); err != nil {
		return nil, errors.Wrap(err, "truncate logs")
	}
	metricHeadSeq().Set(int64(head.Seq))
	logger.Info("ledger opened", "genesis", gene.ID().AbbrevString(), "network", gene.Name(), "seq", head.Seq, "block", head.BlockNumber)
	return l, nil
}

func (l *Ledger) initGenesis(gene *genesis.Genesis) error {
	result, err := gene.Build(l.stater)
	if err != nil {
		return err
	}
	head := &Head{ID: gene.ID(), BlockTime: gene.Timestamp()}

	w := l.logDB.NewWriter()
	if err := w.Write(&tx.Receipt{
		ID:        head.ID,
		BlockTime: head.BlockTime,
		Output:    &tx.Output{Events: result.Events, Transfers: result.Transfers},
	}); err != nil {
		_ = w.Rollback()
		return err
	}
	if err := w.Commit(); err != nil {
		return errors.Wrap(err, "commit genesis logs")
	}

	bulk := l.db.Bulk()
	if err := result.Stage.Commit(l.stater.Putter(bulk)); err != nil {
		return err
	}
	meta := metaBucket.NewPutter(bulk)
	if err := meta.Put(genesisIDKey, gene.ID().Bytes()); err != nil {
		return err
	}
	if err := saveHead(meta, head); err != nil {
		return err
	}
	if err := bulk.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	logger.Info("genesis initialized", "id", gene.ID(), "entries", result.Stage.Len())
	return nil
}

// GenesisID returns the id of the genesis the ledger was built from.
func (l *Ledger) GenesisID() bicash.Bytes32 {
	return l.genesisID
}

// Head returns the latest admitted call.
func (l *Ledger) Head() Head {
	return *l.head.Load()
}

// Changed returns a channel closed once a call is admitted.
func (l *Ledger) Changed() <-chan struct{} {
	return l.signal.Wait()
}

// LogDB returns the log db.
func (l *Ledger) LogDB() *logdb.LogDB {
	return l.logDB
}

// nextBlock derives the block a call admitted now falls in. Block numbers never decrease.
func (l *Ledger) nextBlock(head *Head) xenv.BlockContext {
	var number uint64
	if now := uint64(l.clock().Unix()); now > l.launch {
		number = (now - l.launch) / l.interval
	}
	if number < uint64(head.BlockNumber) {
		number = uint64(head.BlockNumber)
	}
	if number > uint64(^uint32(0)) {
		number = uint64(^uint32(0))
	}
	return xenv.BlockContext{
		Number: uint32(number),
		Time:   l.launch + number*l.interval,
	}
}

func methodLabels(clause *tx.Clause) map[string]string {
	contract, ok := builtin.ContractName(clause.To())
	if !ok {
		contract = "unknown"
	}
	return map[string]string{"contract": contract, "method": clause.Method()}
}

// Execute admits the call of caller and commits its effects. Reverted calls are
// admitted too, leaving only their receipt. Other errors leave the ledger untouched.
// The caller is trusted: calls from outside the process go through ExecuteSigned.
func (l *Ledger) Execute(caller bicash.Address, clause *tx.Clause) (*tx.Receipt, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	nonce, err := l.nonce(caller)
	if err != nil {
		return nil, err
	}
	return l.execute(caller, nonce, clause)
}

// ExecuteSigned admits a call on behalf of its signer, as Execute does. The call
// must carry the next nonce of the signer.
func (l *Ledger) ExecuteSigned(call *tx.SignedCall) (*tx.Receipt, error) {
	caller, err := call.Caller(l.genesisID)
	if err != nil {
		return nil, errors.Wrap(ErrBadSignature, err.Error())
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	nonce, err := l.nonce(caller)
	if err != nil {
		return nil, err
	}
	if call.Nonce != nonce {
		return nil, errors.Wrapf(ErrBadNonce, "want %d, got %d", nonce, call.Nonce)
	}
	return l.execute(caller, nonce, call.Clause)
}

// Nonce returns the count of calls admitted from addr, which is the nonce its
// next signed call must carry.
func (l *Ledger) Nonce(addr bicash.Address) (uint64, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()

	return l.nonce(addr)
}

func (l *Ledger) nonce(addr bicash.Address) (uint64, error) {
	nonce, err := loadNonce(l.meta, addr)
	return nonce, errors.Wrap(err, "load nonce")
}

func (l *Ledger) execute(caller bicash.Address, nonce uint64, clause *tx.Clause) (*tx.Receipt, error) {
	if _, ok := builtin.ContractName(caller); ok {
		return nil, errors.Wrapf(ErrContractCaller, "%v", caller)
	}

	start := time.Now()
	labels := methodLabels(clause)

	head := l.head.Load()
	blockCtx := l.nextBlock(head)
	seq := head.Seq + 1
	txCtx := &xenv.TransactionContext{
		ID:     clause.ID(seq, caller),
		Seq:    seq,
		Origin: caller,
	}

	st := l.stater.NewState()
	out, err := runtime.New(st, blockCtx).ExecuteClause(clause, txCtx)
	if err != nil {
		metricCallCount().AddWithLabel(1, map[string]string{"contract": labels["contract"], "method": labels["method"], "result": "error"})
		logger.Error("call failed", "method", clause.Method(), "caller", caller, "err", err)
		return nil, err
	}
	receipt := &tx.Receipt{
		Seq:         seq,
		ID:          txCtx.ID,
		BlockNumber: blockCtx.Number,
		BlockTime:   blockCtx.Time,
		Caller:      caller,
		Clause:      clause,
		Output:      out,
	}
	newHead := &Head{Seq: seq, ID: receipt.ID, BlockNumber: blockCtx.Number, BlockTime: blockCtx.Time}
	if err := l.commit(st.Stage(), receipt, newHead, nonce+1); err != nil {
		metricCallCount().AddWithLabel(1, map[string]string{"contract": labels["contract"], "method": labels["method"], "result": "error"})
		return nil, err
	}
	l.head.Store(newHead)
	l.signal.Broadcast()

	result := "success"
	if out.Reverted {
		result = "reverted"
	}
	metricCallCount().AddWithLabel(1, map[string]string{"contract": labels["contract"], "method": labels["method"], "result": result})
	metricCallDuration().ObserveWithLabels(time.Since(start).Milliseconds(), labels)
	metricHeadSeq().Set(int64(seq))
	metricBlockNumber().Set(int64(blockCtx.Number))
	logger.Debug("call admitted", "seq", seq, "method", clause.Method(), "caller", caller, "reverted", out.Reverted, "reason", out.RevertReason)
	return receipt, nil
}

// commit writes logs first, then the state, the caller nonce and head in one batch.
// Logs written for a head that never reached the db are truncated on open.
func (l *Ledger) commit(stage *state.Stage, receipt *tx.Receipt, head *Head, nonce uint64) error {
	w := l.logDB.NewWriter()
	if err := w.Write(receipt); err != nil {
		_ = w.Rollback()
		return err
	}
	if err := w.Commit(); err != nil {
		return errors.Wrap(err, "commit logs")
	}

	bulk := l.db.Bulk()
	if err := stage.Commit(l.stater.Putter(bulk)); err != nil {
		return err
	}
	meta := metaBucket.NewPutter(bulk)
	if err := saveNonce(meta, receipt.Caller, nonce); err != nil {
		return err
	}
	if err := saveHead(meta, head); err != nil {
		return err
	}
	return errors.Wrap(bulk.Write(), "write state")
}

// Inspect runs the call of caller against the latest state without admitting it.
func (l *Ledger) Inspect(caller bicash.Address, clause *tx.Clause) (*tx.Output, error) {
	if _, ok := builtin.ContractName(caller); ok {
		return nil, errors.Wrapf(ErrContractCaller, "%v", caller)
	}

	l.lock.RLock()
	defer l.lock.RUnlock()

	rt := runtime.New(l.stater.NewState(), l.nextBlock(l.head.Load()))
	return rt.Call(clause, caller)
}

// View calls fn with the latest committed state. Changes fn makes are discarded.
func (l *Ledger) View(fn func(st *state.State, blockCtx *xenv.BlockContext) error) error {
	l.lock.RLock()
	defer l.lock.RUnlock()

	blockCtx := l.nextBlock(l.head.Load())
	return fn(l.stater.NewState(), &blockCtx)
}
