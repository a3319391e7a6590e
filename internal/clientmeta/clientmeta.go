// Package clientmeta identifies the editor client making a request.
//
// Clients announce themselves with an Editor-Client header, an RFC 8941
// Dictionary:
//
//	Editor-Client: name="acme-admin";version="1.4.2", platform="web"
//
// The header is optional. When present it must parse, and the announced
// version must meet the server's minimum; structured clients below the
// floor are told to upgrade so they don't drive a session with stale
// drag or dialog semantics.
package clientmeta

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dunglas/httpsfv"
	"golang.org/x/mod/semver"
)

// Header is the request header carrying client identity.
const Header = "Editor-Client"

// Client is a parsed Editor-Client header.
type Client struct {
	Name     string
	Version  string
	Platform string
}

// String renders the identity for log lines.
func (c Client) String() string {
	if c.Version == "" {
		return c.Name
	}
	return c.Name + "/" + c.Version
}

// Parse extracts the client identity from an Editor-Client header value.
// The name key is required; version and platform are optional.
func Parse(header string) (Client, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return Client{}, errors.New("empty Editor-Client header")
	}

	dict, err := httpsfv.UnmarshalDictionary([]string{header})
	if err != nil {
		return Client{}, fmt.Errorf("invalid Editor-Client header: %w", err)
	}

	var c Client
	c.Name, err = stringKey(dict, "name")
	if err != nil {
		return Client{}, err
	}
	if c.Name == "" {
		return Client{}, errors.New("name key not found in Editor-Client header")
	}
	if c.Version, err = stringKey(dict, "version"); err != nil {
		return Client{}, err
	}
	if c.Platform, err = stringKey(dict, "platform"); err != nil {
		return Client{}, err
	}
	return c, nil
}

// MeetsMinimum reports whether the client's announced version is at
// least min. Clients that announce no version pass; the floor only
// binds versions actually claimed. Unparseable versions fail.
func (c Client) MeetsMinimum(min string) bool {
	if c.Version == "" {
		return true
	}
	v := canonical(c.Version)
	if !semver.IsValid(v) {
		return false
	}
	return semver.Compare(v, canonical(min)) >= 0
}

// stringKey pulls a string item out of an SFV dictionary, tolerating
// absence but not wrong types.
func stringKey(dict *httpsfv.Dictionary, key string) (string, error) {
	member, ok := dict.Get(key)
	if !ok {
		return "", nil
	}
	item, ok := member.(httpsfv.Item)
	if !ok {
		return "", fmt.Errorf("%s value must be an item", key)
	}
	s, ok := item.Value.(string)
	if !ok {
		return "", fmt.Errorf("%s value must be a string", key)
	}
	return s, nil
}

// canonical adds the "v" prefix golang.org/x/mod/semver requires.
func canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
