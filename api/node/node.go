// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/BicashFinance/bicash-protocol/api/utils"
	"github.com/BicashFinance/bicash-protocol/bicash"
	"github.com/BicashFinance/bicash-protocol/ledger"
)

// Info describes the running node.
type Info struct {
	Version       string         `json:"version"`
	GenesisID     bicash.Bytes32 `json:"genesisId"`
	LaunchTime    uint64         `json:"launchTime"`
	BlockInterval uint64         `json:"blockInterval"`
}

type Node struct {
	ledger *ledger.Ledger
	info   Info
}

func New(ledger *ledger.Ledger, info Info) *Node {
	return &Node{
		ledger,
		info,
	}
}

func (n *Node) handleNodeInfo(w http.ResponseWriter, _ *http.Request) error {
	return utils.WriteJSON(w, n.info)
}

func (n *Node) handleHead(w http.ResponseWriter, _ *http.Request) error {
	head := n.ledger.Head()
	return utils.WriteJSON(w, &head)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/info").
		Methods(http.MethodGet).
		Name("node_get_info").
		HandlerFunc(utils.WrapHandlerFunc(n.handleNodeInfo))
	sub.Path("/head").
		Methods(http.MethodGet).
		Name("node_get_head").
		HandlerFunc(utils.WrapHandlerFunc(n.handleHead))
}
