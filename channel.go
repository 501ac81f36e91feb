package tdms

import (
	"fmt"

	"github.com/acqlab/tdms/daqmx"
	"github.com/acqlab/tdms/errs"
	"github.com/acqlab/tdms/format"
	"github.com/acqlab/tdms/segment"
)

// Version returns the file's format version, 4712 or 4713. Files written by
// interrupted writers sometimes mix versions per segment; the last segment
// read wins.
func (f *File) Version() uint32 {
	return f.version
}

// Properties returns the file-level properties, the ones attached to the
// root object "/". It returns nil when no segment described the root object.
func (f *File) Properties() segment.Properties {
	fo, ok := f.lookup(RootPath)
	if !ok {
		return nil
	}

	return fo.props
}

// GroupNames returns the names of all groups in file order. Groups that only
// ever appear as a channel's parent, with no group object of their own,
// are included.
func (f *File) GroupNames() []string {
	seen := make(map[string]struct{}, len(f.objects))
	var names []string
	for _, fo := range f.objects {
		if fo.group == "" {
			continue
		}
		if _, ok := seen[fo.group]; ok {
			continue
		}
		seen[fo.group] = struct{}{}
		names = append(names, fo.group)
	}

	return names
}

// Groups returns all groups in file order.
func (f *File) Groups() []*Group {
	names := f.GroupNames()
	groups := make([]*Group, len(names))
	for i, name := range names {
		groups[i] = &Group{file: f, name: name}
	}

	return groups
}

// Group returns the named group.
func (f *File) Group(name string) (*Group, error) {
	for _, fo := range f.objects {
		if fo.group == name {
			return &Group{file: f, name: name}, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", errs.ErrGroupNotFound, name)
}

// Channels returns every channel in the file, in file order.
func (f *File) Channels() []*Channel {
	var channels []*Channel
	for _, fo := range f.objects {
		if fo.isChannel() {
			channels = append(channels, &Channel{file: f, obj: fo})
		}
	}

	return channels
}

// Channel returns the named channel of the named group.
func (f *File) Channel(group, channel string) (*Channel, error) {
	fo, ok := f.lookup(BuildPath(group, channel))
	if !ok || !fo.isChannel() {
		return nil, fmt.Errorf("%w: %s", errs.ErrChannelNotFound, BuildPath(group, channel))
	}

	return &Channel{file: f, obj: fo}, nil
}

// Group is one group of channels within a file.
type Group struct {
	file *File
	name string
}

// Name returns the group's name.
func (g *Group) Name() string {
	return g.name
}

// Path returns the group's object path.
func (g *Group) Path() string {
	return BuildPath(g.name, "")
}

// Properties returns the group object's properties, nil when the group has
// no object of its own.
func (g *Group) Properties() segment.Properties {
	fo, ok := g.file.lookup(g.Path())
	if !ok {
		return nil
	}

	return fo.props
}

// Channels returns the group's channels in file order.
func (g *Group) Channels() []*Channel {
	var channels []*Channel
	for _, fo := range g.file.objects {
		if fo.isChannel() && fo.group == g.name {
			channels = append(channels, &Channel{file: g.file, obj: fo})
		}
	}

	return channels
}

// Channel returns the named channel of this group.
func (g *Group) Channel(name string) (*Channel, error) {
	return g.file.Channel(g.name, name)
}

// Channel is one channel of a file: a named series of samples with its
// accumulated properties and, for DAQmx channels, the scaler layout of the
// most recent segment.
type Channel struct {
	file *File
	obj  *fileObject
}

// Name returns the channel's name.
func (c *Channel) Name() string {
	return c.obj.channel
}

// GroupName returns the name of the group the channel belongs to.
func (c *Channel) GroupName() string {
	return c.obj.group
}

// Path returns the channel's object path.
func (c *Channel) Path() string {
	return c.obj.path
}

// Properties returns the channel's properties merged across all segments.
func (c *Channel) Properties() segment.Properties {
	return c.obj.props
}

// DataType returns the channel's declared data type. DAQmx channels report
// format.DAQmxRawData; their effective sample types live in ScalerTypes.
func (c *Channel) DataType() format.DataType {
	return c.obj.dataType
}

// NumberValues returns the channel's total sample count across all
// segments. For DAQmx channels this counts rows, which every scaler of the
// channel has one sample per.
func (c *Channel) NumberValues() uint64 {
	return c.obj.totalValues
}

// IsDAQmx returns whether the channel carries DAQmx raw data.
func (c *Channel) IsDAQmx() bool {
	return c.obj.daqmx != nil
}

// ScalerTypes returns the native container type of each of the channel's
// scalers keyed by scale id, or nil for a non-DAQmx channel.
func (c *Channel) ScalerTypes() map[uint32]format.DataType {
	if c.obj.daqmx == nil {
		return nil
	}

	return c.obj.daqmx.ScalerTypes()
}

// Scalers returns the channel's scaler descriptors from its most recent
// segment, nil for a non-DAQmx channel.
func (c *Channel) Scalers() []daqmx.Scaler {
	if c.obj.daqmx == nil {
		return nil
	}

	return c.obj.daqmx.Scalers
}
