package shell

import (
	"github.com/optinet/srotest/pkg/conf"
	"github.com/optinet/srotest/pkg/device"
)

var (
	client1AddressFlag = conf.NewIPFlag("client1_address", "Address of the first traffic source", "127.0.0.1")
	client2AddressFlag = conf.NewIPFlag("client2_address", "Address of the second traffic source", "127.0.0.1")
	server1AddressFlag = conf.NewIPFlag("server1_address", "Address of the first replication target", "127.0.0.1")
	server2AddressFlag = conf.NewIPFlag("server2_address", "Address of the second replication target", "127.0.0.1")

	optimizerTxAddressFlag = conf.NewIPFlag("optimizer_tx_address", "Address of the sending-site appliance", "127.0.0.1")
	optimizerRxAddressFlag = conf.NewIPFlag("optimizer_rx_address", "Address of the receiving-site appliance", "127.0.0.1")

	probeAddressFlag    = conf.NewIPFlag("probe_address", "Address of the throughput probe host", "127.0.0.1")
	impairerAddressFlag = conf.NewStringFlag("impairer_address", "Address of the WAN emulation host, empty when the path has none", "")

	sshUserFlag = conf.NewStringFlag("ssh_user", "User for SSH sessions on testbed hosts", "root")
	sshKeyFlag  = conf.NewFileFlag("ssh_key", "Private key for SSH sessions on testbed hosts", "/root/.ssh/id_rsa")
	sshPortFlag = conf.NewIntFlag("ssh_port", "Port for SSH sessions on testbed hosts", 22)

	logPathFlag = conf.NewStringFlag("appliance_log", "Path of the appliance system log", "/var/log/messages")

	meterLANIfaceFlag = conf.NewStringFlag("meter_lan_iface", "Probe interface carrying the LAN side", "eth1")
	meterWANIfaceFlag = conf.NewStringFlag("meter_wan_iface", "Probe interface carrying the WAN side", "eth2")

	impairerIfaceFlag = conf.NewStringFlag("impairer_iface", "WAN emulation interface netem is programmed on", "eth1")
)

var endpointFlags = map[device.Role]*conf.IPFlag{
	device.RoleClient1: client1AddressFlag,
	device.RoleClient2: client2AddressFlag,
	device.RoleServer1: server1AddressFlag,
	device.RoleServer2: server2AddressFlag,
}

var intermediaryFlags = map[device.Role]*conf.IPFlag{
	device.RoleSendingOptimizer:   optimizerTxAddressFlag,
	device.RoleReceivingOptimizer: optimizerRxAddressFlag,
}
