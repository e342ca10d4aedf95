package proxysrv

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aigarth-label/qubic-bridge/identity"
	"github.com/aigarth-label/qubic-bridge/journal"
	"github.com/aigarth-label/qubic-bridge/qubic"
	"github.com/aigarth-label/qubic-bridge/rpc/nodeclient"
	"github.com/aigarth-label/qubic-bridge/util"
)

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		badRequest(w, "missing 'id' parameter")
		return
	}
	if !identity.Valid(id) {
		badRequest(w, "invalid identity format")
		return
	}

	res, err := s.node.GetBalance(r.Context(), id)
	if err != nil {
		internalError(w, s.log, "balance lookup", err)
		return
	}

	s.log.Debugf("balance for %s via %s", util.Short(id), res.RpcSource)
	writeJSON(w, http.StatusOK, map[string]any{
		"balance": map[string]any{
			"id":     res.ID,
			"amount": res.Amount,
		},
		"rpcSource": res.RpcSource,
		"rpcStatus": res.RpcStatus,
	})
}

func (s *Server) handleTickInfo(w http.ResponseWriter, r *http.Request) {
	res, err := s.node.GetTickInfo(r.Context())
	if err != nil {
		internalError(w, s.log, "tick lookup", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tickInfo": map[string]any{
			"tick":  res.Tick,
			"epoch": res.Epoch,
		},
		"rpcSource": res.RpcSource,
		"rpcStatus": res.RpcStatus,
	})
}

func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EncodedTransaction string `json:"encodedTransaction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if body.EncodedTransaction == "" {
		badRequest(w, "missing encodedTransaction")
		return
	}

	res, err := s.node.Broadcast(r.Context(), body.EncodedTransaction)
	if err == nodeclient.ErrAllEndpointsFailed {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":     "all rpc endpoints failed to broadcast",
			"rpcSource": nodeclient.SourceNone,
			"rpcStatus": nodeclient.StatusOffline,
		})
		return
	}
	if err != nil {
		s.log.Errf("broadcast: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":     "broadcast failed",
			"rpcSource": nodeclient.SourceNone,
			"rpcStatus": nodeclient.StatusError,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"transactionId":    res.TransactionID,
		"peersBroadcasted": res.PeersBroadcasted,
		"rpcSource":        res.RpcSource,
		"rpcStatus":        res.RpcStatus,
	})
}

func (s *Server) handleFund(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Category string `json:"category"`
		Amount   int64  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if body.Category == "" {
		badRequest(w, "missing category")
		return
	}
	if body.Amount <= 0 {
		badRequest(w, "amount must be positive")
		return
	}

	newBalance, err := s.store.AddFunds(body.Category, body.Amount)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	s.log.Infof("funded %d QU to %q, balance now %d", body.Amount, body.Category, newBalance)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"category":   body.Category,
		"newBalance": newBalance,
	})
}

func (s *Server) handleFundBalance(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		badRequest(w, "category required")
		return
	}

	balance, err := s.store.Balance(category)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"balance": balance})
}

func (s *Server) handlePayout(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Category    string `json:"category"`
		UserQubicID string `json:"userQubicId"`
		Amount      int64  `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if body.Category == "" || body.UserQubicID == "" {
		badRequest(w, "missing parameters")
		return
	}
	if body.Amount <= 0 {
		badRequest(w, "amount must be positive")
		return
	}
	if !identity.Valid(body.UserQubicID) {
		badRequest(w, "invalid worker identity format")
		return
	}

	// gate on the local ledger before touching the chain
	if !s.store.DeductFunds(body.Category, body.Amount) {
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"success": false,
			"error":   "insufficient funds in category pool",
		})
		return
	}

	res := s.bridge.PayWorker(r.Context(), body.UserQubicID, body.Amount)
	s.record(body.Category, body.Amount, res)

	if !res.Success {
		// the ledger deduction stands for nothing if the chain transfer
		// never happened; re-credit it
		s.store.AddFunds(body.Category, body.Amount)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"success": false,
			"error":   res.Error,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"txId":      res.TxID,
		"amount":    body.Amount,
		"rpcSource": res.Debug.RpcSource,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.bridge.GetNetworkStatus(r.Context())

	writeJSON(w, http.StatusOK, map[string]any{
		"network":    st,
		"treasuryId": s.bridge.TreasuryID().String(),
		"categories": s.store.Balances(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 25
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	entries := []journal.Entry{}
	if s.jrnl != nil {
		var err error
		entries, err = s.jrnl.List(limit)
		if err != nil {
			internalError(w, s.log, "journal read", err)
			return
		}
		if entries == nil {
			entries = []journal.Entry{}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"transfers": entries})
}

// record appends the transfer to the journal, best-effort.
func (s *Server) record(category string, amount int64, res qubic.TransferResult) {
	if s.jrnl == nil {
		return
	}

	err := s.jrnl.Append(journal.Entry{
		Time:        int64(util.Time()),
		TxID:        res.TxID,
		Source:      res.Debug.SourceID,
		Destination: res.Debug.DestinationID,
		Amount:      amount,
		TargetTick:  res.Debug.TargetTick,
		Category:    category,
		RpcSource:   res.Debug.RpcSource,
		Success:     res.Success,
		Error:       res.Error,
		Encoded:     res.Raw,
	})
	if err != nil {
		s.log.Warnf("journal append failed: %v", err)
	}
}
