package sdk

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/everFinance/xnames/schema"
	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
)

// XnamesCli calls the read endpoints, which need no signature.
type XnamesCli struct {
	SCli *gentleman.Client
}

func New(xnamesUrl string) *XnamesCli {
	return &XnamesCli{
		SCli: gentleman.New().URL(xnamesUrl),
	}
}

// respError turns an error body into schema.RespErr so callers can match the code.
func respError(resp *gentleman.Response) error {
	body := resp.String()
	if msg := gjson.Get(body, "error"); msg.Exists() {
		return schema.RespErr{Err: msg.String()}
	}
	return fmt.Errorf("resp failed; http code: %d, body: %s", resp.StatusCode, body)
}

func (x *XnamesCli) get(path string, out interface{}) error {
	return x.getWithQuery(path, nil, out)
}

func (x *XnamesCli) getWithQuery(path string, query map[string]string, out interface{}) error {
	req := x.SCli.Get()
	req.Path(path)
	for k, v := range query {
		req.AddQuery(k, v)
	}
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return respError(resp)
	}
	return resp.JSON(out)
}

func (x *XnamesCli) GetState() (schema.RespState, error) {
	st := schema.RespState{}
	err := x.get("/state", &st)
	return st, err
}

func (x *XnamesCli) GetPrice(length uint8) (schema.RespPrice, error) {
	p := schema.RespPrice{}
	err := x.get(fmt.Sprintf("/price/%d", length), &p)
	return p, err
}

// GetTokenInfo returns nil when the token does not exist.
func (x *XnamesCli) GetTokenInfo(tokenId string) (*schema.RespTokenInfo, error) {
	info := &schema.RespTokenInfo{}
	if err := x.get(fmt.Sprintf("/token/%s", tokenId), info); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}

// GetSubscriptionStatus returns nil when the token does not exist.
func (x *XnamesCli) GetSubscriptionStatus(tokenId string) (*schema.TokenSubscriptionStatus, error) {
	st := &schema.TokenSubscriptionStatus{}
	if err := x.get(fmt.Sprintf("/subscription/%s", tokenId), st); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return st, nil
}

func (x *XnamesCli) GetAdmins() ([]common.Address, error) {
	res := make([]common.Address, 0)
	err := x.get("/authority/admins", &res)
	return res, err
}

func (x *XnamesCli) GetMaintainers() ([]common.Address, error) {
	res := make([]common.Address, 0)
	err := x.get("/authority/maintainers", &res)
	return res, err
}

func (x *XnamesCli) GetOrders(owner common.Address, cursorId int64) ([]schema.MintOrder, error) {
	res := make([]schema.MintOrder, 0)
	err := x.getWithQuery(fmt.Sprintf("/nft/orders/%s", owner.Hex()), map[string]string{"cursorId": fmt.Sprint(cursorId)}, &res)
	return res, err
}

func (x *XnamesCli) GetEvents(tokenId string, cursorId int64) ([]schema.RegistryEvent, error) {
	res := make([]schema.RegistryEvent, 0)
	err := x.getWithQuery(fmt.Sprintf("/events/%s", tokenId), map[string]string{"cursorId": fmt.Sprint(cursorId)}, &res)
	return res, err
}

func isNotFound(err error) bool {
	re, ok := err.(schema.RespErr)
	return ok && re.Err == schema.ErrNotFound.Error()
}

