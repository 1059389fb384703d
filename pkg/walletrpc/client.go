package walletrpc

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/Infernoman/yiimp/models"
)

// Client talks JSON-RPC to a coin's wallet node.
type Client struct {
	http *resty.Client
	url  string
}

func NewClient(coin models.Coin, timeout time.Duration) *Client {
	http := resty.New().
		SetTimeout(timeout).
		SetBasicAuth(coin.RpcUser, coin.RpcPassword).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http: http,
		url:  fmt.Sprintf("http://%s:%d", coin.RpcHost, coin.RpcPort),
	}
}

type rpcRequest struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
	Id     int64         `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type listTransactionsReply struct {
	Result []models.WalletTransaction `json:"result"`
	Error  *rpcError                  `json:"error"`
}

// ListTransactions fetches up to count wallet history entries for the
// given account selector, most recent first. The wallet may hold more
// history than one page; callers must treat the result as a window, not
// the full log.
func (c *Client) ListTransactions(account string, count int) ([]models.WalletTransaction, error) {
	req := rpcRequest{
		Method: "listtransactions",
		Params: []interface{}{account, count},
		Id:     time.Now().UnixNano(),
	}

	resp, err := c.http.R().SetBody(req).Post(c.url)
	if err != nil {
		return nil, errors.Wrap(err, "wallet rpc unreachable")
	}

	// Wallet nodes report RPC errors in the body with a non-2xx status,
	// so decode the body before looking at the status code.
	var reply listTransactionsReply
	if err := json.Unmarshal(resp.Body(), &reply); err != nil {
		if resp.IsError() {
			return nil, errors.Errorf("wallet rpc: %s", resp.Status())
		}
		return nil, errors.Wrap(err, "decoding wallet rpc response")
	}
	if reply.Error != nil {
		return nil, errors.Errorf("wallet rpc: %s (code %d)", reply.Error.Message, reply.Error.Code)
	}
	if resp.IsError() {
		return nil, errors.Errorf("wallet rpc: %s", resp.Status())
	}

	// listtransactions returns oldest first; the checker wants the most
	// recent entries up front.
	txs := reply.Result
	for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
		txs[i], txs[j] = txs[j], txs[i]
	}
	return txs, nil
}
