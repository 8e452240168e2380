package runtime

// Lifecycle is implemented by components that need mount/unmount hooks.
type Lifecycle interface {
	Mount()
	Unmount()
}

// Bindable is implemented by components that need app services.
type Bindable interface {
	Bind(services Services)
	Unbind()
}

// ChildProvider exposes statically known child components so lifecycle
// hooks reach them.
type ChildProvider interface {
	Children() []Component
}

// MountTree binds and mounts root and its children, parents first.
func MountTree(root Component, services Services) {
	if root == nil {
		return
	}
	if b, ok := root.(Bindable); ok {
		b.Bind(services)
	}
	if m, ok := root.(Lifecycle); ok {
		m.Mount()
	}
	if children, ok := root.(ChildProvider); ok {
		for _, child := range children.Children() {
			MountTree(child, services)
		}
	}
}

// UnmountTree unmounts and unbinds root and its children, children first.
func UnmountTree(root Component) {
	if root == nil {
		return
	}
	if children, ok := root.(ChildProvider); ok {
		for _, child := range children.Children() {
			UnmountTree(child)
		}
	}
	if m, ok := root.(Lifecycle); ok {
		m.Unmount()
	}
	if b, ok := root.(Bindable); ok {
		b.Unbind()
	}
}
