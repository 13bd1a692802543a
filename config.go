// Copyright (c) 2023 Silvano DAL ZILIO
//
// MIT License

package grel

import (
	"io"

	"github.com/sirupsen/logrus"
)

// configs is used to store the values of the different parameters of an
// Engine.
type configs struct {
	nodesize        int            // initial number of nodes in the table
	cachesize       int            // initial cache size (general)
	cacheratio      int            // initial ratio (general, 0 if size constant) between cache size and node table
	maxnodesize     int            // Maximum total number of nodes (0 if no limit)
	maxnodeincrease int            // Maximum number of nodes that can be added to the table at each resize (0 if no limit)
	minfreenodes    int            // Minimum number of nodes that should be left after GC before triggering a resize
	log             *logrus.Logger // Logger used for GC, resize and error diagnostics
}

func makeconfigs() *configs {
	c := &configs{}
	c.minfreenodes = _MINFREENODES
	c.maxnodeincrease = _DEFAULTMAXNODEINC
	c.nodesize = 10007
	c.cachesize = 10000
	c.log = logrus.New()
	c.log.SetOutput(io.Discard)
	return c
}

// Option is the type of the configuration options that can be passed to New.
type Option func(*configs)

// Nodesize is a configuration option (function). Used as a parameter in New it
// sets a preferred initial size for the node table. The size of the BDD can
// increase during computation. Typical values are 10 000 nodes for small test
// examples and up to 1 000 000 nodes for large examples.
func Nodesize(size int) Option {
	return func(c *configs) {
		if size > 2 {
			c.nodesize = size
		}
	}
}

// Maxnodesize is a configuration option (function). Used as a parameter in New
// it sets a limit to the number of nodes in the BDD. An operation trying to
// raise the number of nodes above this limit will generate an error and return
// a nil Node. The default value (0) means that there is no limit. In which case
// allocation can panic if we exhaust all the available memory.
func Maxnodesize(size int) Option {
	return func(c *configs) {
		c.maxnodesize = size
	}
}

// Maxnodeincrease is a configuration option (function). Used as a parameter in
// New it sets a limit on the increase in size of the node table. Below this
// limit we typically double the size of the node list each time we need to
// resize it. The default value is about a million nodes. Set the value to zero
// to avoid imposing a limit.
func Maxnodeincrease(size int) Option {
	return func(c *configs) {
		c.maxnodeincrease = size
	}
}

// Minfreenodes is a configuration option (function). Used as a parameter in New
// it sets the ratio of free nodes (%) that has to be left after a Garbage
// Collection event. When there is not enough free nodes in the BDD, we try
// reclaiming unused nodes. With a ratio of, say 25, we resize the table if the
// number of free nodes is less than 25% of the capacity of the table (see
// Maxnodesize and Maxnodeincrease). The default value is 20%.
func Minfreenodes(ratio int) Option {
	return func(c *configs) {
		c.minfreenodes = ratio
	}
}

// Cachesize is a configuration option (function). Used as a parameter in New it
// sets the initial number of entries in the operation caches. The default value
// is 10 000. See also the Cacheratio option.
func Cachesize(size int) Option {
	return func(c *configs) {
		c.cachesize = size
	}
}

// Cacheratio is a configuration option (function). Used as a parameter in New
// it sets a "cache ratio" (%) so that caches can grow each time we resize the
// node table. With a cache ratio of r, we have r available entries in the cache
// for every 100 slots in the node table. The default value (0) means that the
// cache size never grows.
func Cacheratio(ratio int) Option {
	return func(c *configs) {
		c.cacheratio = ratio
	}
}

// Logger is a configuration option (function). Used as a parameter in New it
// sets the logger used to report garbage collections, resizing events and
// engine errors. Reporting is done at the Debug level. The default logger
// discards everything.
func Logger(l *logrus.Logger) Option {
	return func(c *configs) {
		if l != nil {
			c.log = l
		}
	}
}
