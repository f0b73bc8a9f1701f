/*
Package redisstore provides a tree.NodeStore backed by a redis database.
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pbanos/grove/tree"
	"github.com/pkg/errors"
	"gopkg.in/redis.v5"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {
	Encode(*tree.Node) ([]byte, error)
	Decode([]byte) (*tree.Node, error)
}

type redisStore struct {
	rc      *redis.Client
	prefix  string
	nencdec NodeEncodeDecoder
}

// New builds a tree.NodeStore backed by a redis DB that
// keeps every node under the key prefix:id, encoded with
// the given NodeEncodeDecoder.
func New(rc *redis.Client, prefix string, nencdec NodeEncodeDecoder) tree.NodeStore {
	return &redisStore{rc, prefix, nencdec}
}

func (rs *redisStore) Create(ctx context.Context, n *tree.Node) error {
	var ok bool
	for !ok {
		if err := ctx.Err(); err != nil {
			return err
		}
		n.ID = uuid.NewString()
		data, err := rs.nencdec.Encode(n)
		if err != nil {
			return errors.Wrap(err, "creating node: encoding node")
		}
		ok, err = rs.rc.SetNX(rs.keyFor(n.ID), data, 0).Result()
		if err != nil {
			return errors.Wrap(err, "creating node in redis")
		}
	}
	return nil
}

func (rs *redisStore) Get(ctx context.Context, id string) (*tree.Node, error) {
	data, err := rs.rc.Get(rs.keyFor(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "retrieving node %q", id)
	}
	n, err := rs.nencdec.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "retrieving node %q: decoding %q", id, data)
	}
	return n, nil
}

func (rs *redisStore) Store(ctx context.Context, n *tree.Node) error {
	redisID := rs.keyFor(n.ID)
	data, err := rs.nencdec.Encode(n)
	if err != nil {
		return errors.Wrapf(err, "storing node %q: encoding node", redisID)
	}
	err = rs.rc.Set(redisID, data, 0).Err()
	if err != nil {
		return errors.Wrapf(err, "storing node %q in redis", redisID)
	}
	return nil
}

func (rs *redisStore) Delete(ctx context.Context, n *tree.Node) error {
	redisID := rs.keyFor(n.ID)
	err := rs.rc.Del(redisID).Err()
	if err != nil {
		return errors.Wrapf(err, "deleting node %q from redis", redisID)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(id string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, id)
}
