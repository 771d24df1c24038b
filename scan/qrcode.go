package scan

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/xeptore/flaw/v8"

	"github.com/xeptore/aliscan/must"
	"github.com/xeptore/aliscan/scan/model"
)

const appName = "aliyun_drive"

type QRCode struct {
	T           int64
	CK          string
	CodeContent string
}

type QRCodeState string

const (
	QRCodeNew       QRCodeState = "NEW"
	QRCodeScanned   QRCodeState = "SCANED"
	QRCodeConfirmed QRCodeState = "CONFIRMED"
	QRCodeExpired   QRCodeState = "EXPIRED"
	QRCodeCanceled  QRCodeState = "CANCELED"
)

type QRCodeStatus struct {
	State QRCodeState
	// Login is only set for confirmed QR codes.
	Login *model.MobileLoginResponse
}

func (c *Client) GenerateQRCode(ctx context.Context) (*QRCode, error) {
	reqURL, err := joinURL(c.endpoints.PassportBaseURL, "/newlogin/qrcode/generate.do")
	if nil != err {
		return nil, err
	}
	params := url.Values{
		"appName":     {appName},
		"fromSite":    {"52"},
		"appEntrance": {"web"},
		"isMobile":    {"false"},
		"lang":        {"zh_CN"},
	}
	reqURL += "?" + params.Encode()

	req, err := newRequest(ctx, http.MethodGet, reqURL, nil)
	if nil != err {
		return nil, err
	}
	respBytes, err := c.send(ctx, req)
	if nil != err {
		return nil, err
	}

	data, err := qrCodeResponseData(respBytes)
	if nil != err {
		return nil, err
	}
	flawP := flaw.P{"response_body": string(respBytes)}

	t, ck, codeContent := data.Get("t"), data.Get("ck"), data.Get("codeContent")
	if t.Type != gjson.Number || ck.Type != gjson.String || codeContent.Type != gjson.String {
		return nil, flaw.From(errors.New("unexpected qr code generate response")).Append(flawP)
	}
	return &QRCode{
		T:           t.Int(),
		CK:          ck.Str,
		CodeContent: codeContent.Str,
	}, nil
}

func (c *Client) QueryQRCode(ctx context.Context, qr *QRCode) (*QRCodeStatus, error) {
	reqURL, err := joinURL(c.endpoints.PassportBaseURL, "/newlogin/qrcode/query.do")
	if nil != err {
		return nil, err
	}
	reqURL += "?" + url.Values{"appName": {appName}, "fromSite": {"52"}}.Encode()

	params := url.Values{
		"t":           {strconv.FormatInt(qr.T, 10)},
		"ck":          {qr.CK},
		"appName":     {appName},
		"appEntrance": {"web"},
		"isMobile":    {"false"},
		"lang":        {"zh_CN"},
		"fromSite":    {"52"},
	}
	req, err := newFormRequest(ctx, reqURL, params)
	if nil != err {
		return nil, err
	}
	respBytes, err := c.send(ctx, req)
	if nil != err {
		return nil, err
	}

	data, err := qrCodeResponseData(respBytes)
	if nil != err {
		return nil, err
	}
	flawP := flaw.P{"response_body": string(respBytes)}

	state := data.Get("qrCodeStatus")
	if state.Type != gjson.String {
		return nil, flaw.From(errors.New("qr code status is missing")).Append(flawP)
	}
	out := &QRCodeStatus{State: QRCodeState(state.Str), Login: nil}

	switch out.State {
	case QRCodeNew, QRCodeScanned, QRCodeExpired, QRCodeCanceled:
	case QRCodeConfirmed:
		bizExt := data.Get("bizExt")
		if bizExt.Type != gjson.String {
			return nil, flaw.From(errors.New("confirmed qr code status has no bizExt")).Append(flawP)
		}
		login, err := model.DecodeBizExt(bizExt.Str)
		if nil != err {
			return nil, must.BeFlaw(err).Append(flawP)
		}
		out.Login = login
	default:
		return nil, flaw.From(fmt.Errorf("unexpected qr code status: %q", state.Str)).Append(flawP)
	}
	return out, nil
}

func qrCodeResponseData(respBytes []byte) (*gjson.Result, error) {
	flawP := flaw.P{"response_body": string(respBytes)}
	if !gjson.ValidBytes(respBytes) {
		return nil, flaw.From(errors.New("invalid qr code response json")).Append(flawP)
	}
	if hasError := gjson.GetBytes(respBytes, "hasError"); hasError.Bool() {
		return nil, flaw.From(errors.New("qr code response has error")).Append(flawP)
	}
	data := gjson.GetBytes(respBytes, "content.data")
	if !data.IsObject() {
		return nil, flaw.From(errors.New("qr code response has no data")).Append(flawP)
	}
	return &data, nil
}
