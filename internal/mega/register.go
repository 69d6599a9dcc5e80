package mega

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// RegistrationState carries the key material and the ephemeral session of a
// single registration attempt. It is bound to the attempt's email address
// and must not be reused across attempts.
type RegistrationState struct {
	Email             string
	UserHandle        string
	Session           string
	MasterKey         []byte
	DerivedKey        []byte
	ClientRandomValue []byte
}

// Register creates an ephemeral account and asks the API to send the signup
// confirmation email for a v2 account. The returned state is required to
// complete the registration once the confirmation key arrives.
func (c *Client) Register(ctx context.Context, email, password, name string) (*RegistrationState, error) {
	masterKey, err := randBytes(keySize)
	if err != nil {
		return nil, err
	}
	passwordKey, err := randBytes(keySize)
	if err != nil {
		return nil, err
	}
	challenge, err := randBytes(keySize)
	if err != nil {
		return nil, err
	}

	// Ephemeral account: the master key wrapped with a throwaway key, plus
	// a self-challenge the server reflects back in the session id.
	wrappedMaster, err := ecbEncrypt(passwordKey, masterKey)
	if err != nil {
		return nil, err
	}
	challengeTag, err := ecbEncrypt(masterKey, challenge)
	if err != nil {
		return nil, err
	}
	ts := append(append(make([]byte, 0, 2*keySize), challenge...), challengeTag...)

	var handle string
	cmd := map[string]interface{}{
		"a":  "up",
		"k":  ToBase64(wrappedMaster),
		"ts": ToBase64(ts),
	}
	if err := c.Do(ctx, "", cmd, &handle); err != nil {
		return nil, fmt.Errorf("create ephemeral account: %w", err)
	}
	if handle == "" {
		return nil, fmt.Errorf("create ephemeral account: empty user handle")
	}

	var sess struct {
		TSID string `json:"tsid"`
		K    string `json:"k"`
	}
	cmd = map[string]interface{}{
		"a":    "us",
		"user": handle,
	}
	if err := c.Do(ctx, "", cmd, &sess); err != nil {
		return nil, fmt.Errorf("open ephemeral session: %w", err)
	}
	if err := checkSession(sess.TSID, masterKey); err != nil {
		return nil, fmt.Errorf("open ephemeral session: %w", err)
	}

	// Signup email for a v2 account: client random value, salt-derived key,
	// master key wrapped under it and the hashed authentication key.
	crv, err := randBytes(keySize)
	if err != nil {
		return nil, err
	}
	derived := deriveKey(password, clientRandomSalt(crv))
	encMasterKey, err := ecbEncrypt(derived[:keySize], masterKey)
	if err != nil {
		return nil, err
	}

	cmd = map[string]interface{}{
		"a":   "uc2",
		"n":   ToBase64([]byte(name)),
		"m":   ToBase64([]byte(email)),
		"crv": ToBase64(crv),
		"k":   ToBase64(encMasterKey),
		"hak": ToBase64(hashedAuthKey(derived[keySize:])),
		"v":   2,
	}
	if err := c.Do(ctx, sess.TSID, cmd, nil); err != nil {
		return nil, fmt.Errorf("request signup link: %w", err)
	}

	return &RegistrationState{
		Email:             email,
		UserHandle:        handle,
		Session:           sess.TSID,
		MasterKey:         masterKey,
		DerivedKey:        derived,
		ClientRandomValue: crv,
	}, nil
}

// VerifyRegistration confirms the signup with the key extracted from the
// confirmation email and attaches a fresh account keyset. The state must
// come from the Register call of the same attempt.
func (c *Client) VerifyRegistration(ctx context.Context, state *RegistrationState, confirmKey string) error {
	var res []json.RawMessage
	cmd := map[string]interface{}{
		"a": "ud2",
		"c": confirmKey,
	}
	if err := c.Do(ctx, state.Session, cmd, &res); err != nil {
		return fmt.Errorf("confirm signup: %w", err)
	}

	// The result starts with the base64-encoded email the link was issued
	// for; reject a link that belongs to someone else's registration.
	if len(res) > 0 {
		var encoded string
		if err := json.Unmarshal(res[0], &encoded); err == nil {
			email, err := FromBase64(encoded)
			if err == nil && string(email) != state.Email {
				return fmt.Errorf("%w: got %s", ErrEmailMismatch, email)
			}
		}
	}

	keyset, err := GenerateKeyset()
	if err != nil {
		return err
	}
	privk, err := keyset.WrappedPrivateRSA(state.MasterKey)
	if err != nil {
		return err
	}

	cmd = map[string]interface{}{
		"a":        "up",
		"pubk":     ToBase64(keyset.PublicRSA()),
		"privk":    ToBase64(privk),
		"puEd255":  ToBase64(keyset.SigningPub),
		"puCu255":  ToBase64(keyset.ChatPub[:]),
		"sigPubk":  ToBase64(keyset.SignPubRSA()),
		"sigCu255": ToBase64(keyset.SignChatPub()),
	}
	if err := c.Do(ctx, state.Session, cmd, nil); err != nil {
		return fmt.Errorf("attach account keys: %w", err)
	}

	return nil
}

// checkSession verifies the self-challenge embedded in an ephemeral session
// id: its trailing block must be the encryption of its leading block under
// the master key.
func checkSession(tsid string, masterKey []byte) error {
	raw, err := FromBase64(tsid)
	if err != nil {
		return fmt.Errorf("decode session id: %w", err)
	}
	if len(raw) < 2*keySize {
		return ErrInvalidSession
	}
	want, err := ecbEncrypt(masterKey, raw[:keySize])
	if err != nil {
		return err
	}
	if !bytes.Equal(want, raw[len(raw)-keySize:]) {
		return ErrInvalidSession
	}
	return nil
}
