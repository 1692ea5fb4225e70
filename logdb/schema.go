// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

const (
	eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER PRIMARY KEY,
	callID BLOB NOT NULL,
	blockNumber INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	caller BLOB NOT NULL,
	address BLOB NOT NULL,
	topic0 BLOB,
	topic1 BLOB,
	topic2 BLOB,
	topic3 BLOB,
	topic4 BLOB,
	data BLOB
);

CREATE INDEX IF NOT EXISTS event_i0 ON event(address);
CREATE INDEX IF NOT EXISTS event_i1 ON event(topic0);
CREATE INDEX IF NOT EXISTS event_i2 ON event(topic1);
CREATE INDEX IF NOT EXISTS event_i3 ON event(blockNumber);
CREATE INDEX IF NOT EXISTS event_i4 ON event(blockTime);
`

	transferTableSchema = `CREATE TABLE IF NOT EXISTS transfer (
	seq INTEGER PRIMARY KEY,
	callID BLOB NOT NULL,
	blockNumber INTEGER NOT NULL,
	blockTime INTEGER NOT NULL,
	caller BLOB NOT NULL,
	token BLOB NOT NULL,
	sender BLOB NOT NULL,
	recipient BLOB NOT NULL,
	amount BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS transfer_i0 ON transfer(callID);
CREATE INDEX IF NOT EXISTS transfer_i1 ON transfer(sender);
CREATE INDEX IF NOT EXISTS transfer_i2 ON transfer(recipient);
CREATE INDEX IF NOT EXISTS transfer_i3 ON transfer(token);
CREATE INDEX IF NOT EXISTS transfer_i4 ON transfer(blockNumber);
`

	eventColumns    = "seq, callID, blockNumber, blockTime, caller, address, topic0, topic1, topic2, topic3, topic4, data"
	transferColumns = "seq, callID, blockNumber, blockTime, caller, token, sender, recipient, amount"
)
