/*
Pixoonair
Copyright (C) 2024 Pixoonair contributors

This file is part of Pixoonair.

Pixoonair is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Pixoonair is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Pixoonair.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package pixoo talks to Divoom Pixoo displays over their local HTTP API and
// to the Divoom cloud endpoint that lists devices on the same LAN.
package pixoo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultDiscoveryUrl = "https://app.divoom-gz.com/Device/ReturnSameLANDevice"

var (
	ErrHttpStatus = errors.New("unexpected http status")
	ErrDevice     = errors.New("device returned an error")
	ErrDiscovery  = errors.New("device discovery failed")
)

type Channel int

const (
	ChannelFaces       Channel = 0
	ChannelCloud       Channel = 1
	ChannelVisualizer  Channel = 2
	ChannelCustom      Channel = 3
	ChannelBlackScreen Channel = 4
	ChannelUnknown     Channel = -1
)

// ChannelFromIndex maps a device SelectIndex to a Channel. Anything out of
// range is ChannelUnknown.
func ChannelFromIndex(i int) Channel {
	if i < int(ChannelFaces) || i > int(ChannelBlackScreen) {
		return ChannelUnknown
	}
	return Channel(i)
}

func (c Channel) String() string {
	switch c {
	case ChannelFaces:
		return "faces"
	case ChannelCloud:
		return "cloud"
	case ChannelVisualizer:
		return "visualizer"
	case ChannelCustom:
		return "custom"
	case ChannelBlackScreen:
		return "black_screen"
	default:
		return "unknown"
	}
}

type Device struct {
	DeviceName      string `json:"DeviceName"`
	DeviceId        uint64 `json:"DeviceId"`
	DevicePrivateIP string `json:"DevicePrivateIP"`
	DeviceMac       string `json:"DeviceMac"`
	Hardware        uint64 `json:"Hardware"`
}

type deviceListResponse struct {
	ReturnCode    int      `json:"ReturnCode"`
	ReturnMessage string   `json:"ReturnMessage"`
	DeviceList    []Device `json:"DeviceList"`
}

type errorCodeResponse struct {
	ErrorCode int `json:"error_code"`
}

type selectIndexResponse struct {
	errorCodeResponse
	SelectIndex int `json:"SelectIndex"`
}

type Client struct {
	DiscoveryUrl string
	http         *http.Client
}

func NewClient(discoveryUrl string, timeout time.Duration) *Client {
	if discoveryUrl == "" {
		discoveryUrl = DefaultDiscoveryUrl
	}
	return &Client{
		DiscoveryUrl: discoveryUrl,
		http:         &http.Client{Timeout: timeout},
	}
}

func (c *Client) post(ctx context.Context, url string, body any, v any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Warn().Err(err).Msg("error closing response body")
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrHttpStatus, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func deviceUrl(ip string) string {
	return "http://" + ip + "/post"
}

// command sends a device command that only answers with an error code.
func (c *Client) command(ctx context.Context, ip string, body map[string]any) error {
	var res errorCodeResponse
	err := c.post(ctx, deviceUrl(ip), body, &res)
	if err != nil {
		return err
	}

	if res.ErrorCode != 0 {
		return fmt.Errorf("%w: error code %d", ErrDevice, res.ErrorCode)
	}

	return nil
}

// Devices lists the displays registered on the caller's LAN.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	log.Debug().Msg("listing devices")

	var res deviceListResponse
	err := c.post(ctx, c.DiscoveryUrl, nil, &res)
	if err != nil {
		return nil, err
	}

	if res.ReturnCode != 0 {
		return nil, fmt.Errorf("%w: %s (code %d)", ErrDiscovery, res.ReturnMessage, res.ReturnCode)
	}

	return res.DeviceList, nil
}

// PlayGif plays a GIF the device downloads from url.
func (c *Client) PlayGif(ctx context.Context, ip string, url string) error {
	log.Debug().Str("ip", ip).Str("url", url).Msg("playing gif")
	return c.command(ctx, ip, map[string]any{
		"Command":  "Device/PlayTFGif",
		"FileType": 2,
		"FileName": url,
	})
}

// PlayDivoomGif plays a GIF from the Divoom gallery by file id.
func (c *Client) PlayDivoomGif(ctx context.Context, ip string, fileId string) error {
	log.Debug().Str("ip", ip).Str("fileId", fileId).Msg("playing divoom gif")
	return c.command(ctx, ip, map[string]any{
		"Command": "Draw/SendRemote",
		"FileId":  fileId,
	})
}

func (c *Client) CurrentChannel(ctx context.Context, ip string) (Channel, error) {
	log.Debug().Str("ip", ip).Msg("getting current channel")

	var res selectIndexResponse
	err := c.post(ctx, deviceUrl(ip), map[string]any{
		"Command": "Channel/GetIndex",
	}, &res)
	if err != nil {
		return ChannelUnknown, err
	}

	if res.ErrorCode != 0 {
		return ChannelUnknown, fmt.Errorf("%w: error code %d", ErrDevice, res.ErrorCode)
	}

	return ChannelFromIndex(res.SelectIndex), nil
}

func (c *Client) SetChannel(ctx context.Context, ip string, ch Channel) error {
	if ch == ChannelUnknown {
		return fmt.Errorf("%w: cannot select unknown channel", ErrDevice)
	}

	log.Debug().Str("ip", ip).Stringer("channel", ch).Msg("setting channel")
	return c.command(ctx, ip, map[string]any{
		"Command":     "Channel/SetIndex",
		"SelectIndex": int(ch),
	})
}
