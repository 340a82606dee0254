/*
 * MiniPar
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package interpreter

import (
	"fmt"
	"sort"
	"sync"
)

/*
DefaultChannelBasePort is the id of the first channel of a session.
*/
const DefaultChannelBasePort = 5000

/*
Channel is a named unbounded FIFO of string messages between two
participants. Either participant may send or receive. Sending never blocks,
receiving blocks until a message is available.
*/
type Channel struct {
	Name         string    // Name of the channel
	Participants [2]string // Participants which were given at declaration
	Port         int       // Id of the channel

	queue []string
	lock  *sync.Mutex
	cond  *sync.Cond
}

/*
newChannel creates a new channel.
*/
func newChannel(name string, p1 string, p2 string, port int) *Channel {
	lock := &sync.Mutex{}
	return &Channel{name, [2]string{p1, p2}, port, nil, lock, sync.NewCond(lock)}
}

/*
Send appends a message to the channel and wakes up one waiting receiver.
*/
func (c *Channel) Send(msg string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.queue = append(c.queue, msg)
	c.cond.Signal()
}

/*
Receive removes the oldest message from the channel. Blocks until a message
is available.
*/
func (c *Channel) Receive() string {
	c.lock.Lock()
	defer c.lock.Unlock()

	for len(c.queue) == 0 {
		c.cond.Wait()
	}

	msg := c.queue[0]
	c.queue = c.queue[1:]

	return msg
}

/*
Len returns the number of pending messages.
*/
func (c *Channel) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return len(c.queue)
}

/*
String returns a string representation of this channel.
*/
func (c *Channel) String() string {
	return fmt.Sprintf("%v between %v and %v (port %v)",
		c.Name, c.Participants[0], c.Participants[1], c.Port)
}

/*
ChannelRegistry holds all channels of a session.
*/
type ChannelRegistry struct {
	channels map[string]*Channel
	nextPort int
	lock     *sync.Mutex
}

/*
NewChannelRegistry creates a new channel registry. Channel ids are counted
from a given base port.
*/
func NewChannelRegistry(basePort int) *ChannelRegistry {
	return &ChannelRegistry{make(map[string]*Channel), basePort, &sync.Mutex{}}
}

/*
Declare creates a new channel. A previous channel with the same name is
replaced.
*/
func (cr *ChannelRegistry) Declare(name string, p1 string, p2 string) *Channel {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	c := newChannel(name, p1, p2, cr.nextPort)

	cr.channels[name] = c
	cr.nextPort++

	return c
}

/*
Channel looks up a channel by name.
*/
func (cr *ChannelRegistry) Channel(name string) (*Channel, bool) {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	c, ok := cr.channels[name]

	return c, ok
}

/*
Names returns the names of all channels in ascending order.
*/
func (cr *ChannelRegistry) Names() []string {
	cr.lock.Lock()
	defer cr.lock.Unlock()

	var ret []string
	for k := range cr.channels {
		ret = append(ret, k)
	}
	sort.Strings(ret)

	return ret
}
